package repo

import (
	"context"
	"testing"

	"github.com/angelmondragon/catalog-backend/internal/repo/repotest"
)

type ctxKey struct{}

func TestNewBaseStoresConnection(t *testing.T) {
	db := repotest.OpenSQLite(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := repotest.OpenSQLite(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)

	if withCtx == nil {
		t.Fatalf("expected non-nil DB when context provided")
	}
	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}

	if withoutCtx := base.DB(nil); withoutCtx != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestSupportsRowLocks(t *testing.T) {
	base := NewBase(repotest.OpenSQLite(t))
	if base.SupportsRowLocks() {
		t.Fatal("sqlite should not advertise row lock support")
	}
	if (Base{}).SupportsRowLocks() {
		t.Fatal("zero base should not advertise row lock support")
	}
}
