package bulkload

import (
	"context"
	"fmt"
	"io"

	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

// CopyProductsStatement loads the transformed CSV into the product table.
const CopyProductsStatement = "COPY product (name, price, description, user_id) FROM STDIN WITH (FORMAT CSV, HEADER)"

const failureMessage = "bulk load failed"

// Sink streams a reader into a COPY FROM STDIN statement.
type Sink interface {
	CopyFrom(ctx context.Context, src io.Reader, statement string) (int64, error)
}

// AdminLookup resolves the id of the single ADMIN user.
type AdminLookup interface {
	AdminID(ctx context.Context) (int64, error)
}

// Service loads product rows from a CSV source owned by the admin.
type Service interface {
	Load(ctx context.Context, actor pkgAuth.Actor, address string) (int64, error)
}

type ServiceParams struct {
	Admins AdminLookup
	Opener Opener
	Sink   Sink
	Logger *logger.Logger
}

type service struct {
	admins AdminLookup
	opener Opener
	sink   Sink
	logg   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Admins == nil {
		return nil, fmt.Errorf("admin lookup required")
	}
	if params.Opener == nil {
		return nil, fmt.Errorf("source opener required")
	}
	if params.Sink == nil {
		return nil, fmt.Errorf("copy sink required")
	}
	return &service{
		admins: params.Admins,
		opener: params.Opener,
		sink:   params.Sink,
		logg:   params.Logger,
	}, nil
}

func (s *service) Load(ctx context.Context, actor pkgAuth.Actor, address string) (int64, error) {
	if !actor.Authenticated() {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	adminID, err := s.admins.AdminID(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, failureMessage)
	}
	if actor.UserID != adminID {
		return 0, pkgerrors.New(pkgerrors.CodeForbidden, "only the admin can load products")
	}

	src, err := s.opener.Open(ctx, address)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && (typed.Code() == pkgerrors.CodeNotFound || typed.Code() == pkgerrors.CodeValidation) {
			return 0, err
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, failureMessage)
	}
	defer src.Close()

	rows, err := s.sink.CopyFrom(ctx, NewOwnerColumnInjector(src, adminID), CopyProductsStatement)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, failureMessage)
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithUserID(ctx, adminID), map[string]any{
			"source":      address,
			"rows_loaded": rows,
		})
		s.logg.Info(logCtx, "bulk product load completed")
	}
	return rows, nil
}
