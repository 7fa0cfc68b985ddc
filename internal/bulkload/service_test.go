package bulkload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

type stubAdmins struct {
	id  int64
	err error
}

func (s stubAdmins) AdminID(ctx context.Context) (int64, error) {
	return s.id, s.err
}

type recordingSink struct {
	statement string
	body      string
	rows      int64
	err       error
}

func (s *recordingSink) CopyFrom(ctx context.Context, src io.Reader, statement string) (int64, error) {
	s.statement = statement
	data, err := io.ReadAll(src)
	if err != nil {
		return 0, err
	}
	s.body = string(data)
	if s.err != nil {
		return 0, s.err
	}
	return s.rows, nil
}

var adminActor = pkgAuth.Actor{UserID: 1, Username: "admin", Role: enums.RoleAdmin}

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func newTestService(t *testing.T, admins AdminLookup, sink Sink) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Admins: admins,
		Opener: NewSourceOpener(time.Second),
		Sink:   sink,
		Logger: logger.New(logger.Options{ServiceName: "bulkload-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestLoadStreamsTransformedCSV(t *testing.T) {
	sink := &recordingSink{rows: 2}
	svc := newTestService(t, stubAdmins{id: 1}, sink)

	rows, err := svc.Load(context.Background(), adminActor, writeCSV(t, "name,price,description\nLamp,12.50,Desk\nMug,3,\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, rows)
	assert.Equal(t, CopyProductsStatement, sink.statement)
	assert.Equal(t, "name,price,description,user_id\nLamp,12.50,Desk,1\nMug,3,,1\n", sink.body)
}

func TestLoadRejectsNonAdmin(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, stubAdmins{id: 1}, sink)

	caller := pkgAuth.Actor{UserID: 2, Username: "shopper", Role: enums.RoleUser}
	_, err := svc.Load(context.Background(), caller, writeCSV(t, "name,price\n"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Empty(t, sink.statement)
}

func TestLoadRequiresActor(t *testing.T) {
	svc := newTestService(t, stubAdmins{id: 1}, &recordingSink{})

	_, err := svc.Load(context.Background(), pkgAuth.Actor{}, "x.csv")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLoadMissingSource(t *testing.T) {
	svc := newTestService(t, stubAdmins{id: 1}, &recordingSink{})

	_, err := svc.Load(context.Background(), adminActor, filepath.Join(t.TempDir(), "absent.csv"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestLoadWrapsCopyFailure(t *testing.T) {
	cause := errors.New("invalid input syntax for type numeric")
	svc := newTestService(t, stubAdmins{id: 1}, &recordingSink{err: cause})

	_, err := svc.Load(context.Background(), adminActor, writeCSV(t, "name,price\nLamp,abc\n"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
	assert.Equal(t, "bulk load failed", typed.Message())
	assert.ErrorIs(t, err, cause)
}

func TestLoadWrapsAdminLookupFailure(t *testing.T) {
	svc := newTestService(t, stubAdmins{err: errors.New("db down")}, &recordingSink{})

	_, err := svc.Load(context.Background(), adminActor, "x.csv")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}
