package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-backend/internal/users"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/security"
)

// AdminService guarantees and resolves the single ADMIN account.
type AdminService interface {
	EnsureAdmin(ctx context.Context) (*users.UserDTO, error)
	AdminID(ctx context.Context) (int64, error)
}

type adminUserRepository interface {
	FindFirstByRole(ctx context.Context, role enums.Role) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// AdminServiceParams names the dependencies for the admin bootstrap.
type AdminServiceParams struct {
	TxRunner        txRunner
	UserRepo        adminUserRepository
	UserRepoFactory func(tx *gorm.DB) adminUserRepository
	AdminConfig     config.AdminConfig
	PasswordConfig  config.PasswordConfig
	Logger          *logger.Logger
}

type adminService struct {
	tx          txRunner
	users       adminUserRepository
	repoFactory func(tx *gorm.DB) adminUserRepository
	adminCfg    config.AdminConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

func NewAdminService(params AdminServiceParams) (AdminService, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	factory := params.UserRepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) adminUserRepository { return users.NewRepository(tx) }
	}
	return &adminService{
		tx:          params.TxRunner,
		users:       params.UserRepo,
		repoFactory: factory,
		adminCfg:    params.AdminConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

// EnsureAdmin creates the configured admin when no ADMIN user exists yet and
// returns the admin either way.
func (s *adminService) EnsureAdmin(ctx context.Context) (*users.UserDTO, error) {
	var admin *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		existing, err := repo.FindFirstByRole(ctx, enums.RoleAdmin)
		if err == nil {
			admin = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
		}

		username := strings.TrimSpace(s.adminCfg.Username)
		if username == "" || s.adminCfg.Password == "" {
			return pkgerrors.New(pkgerrors.CodeInternal, "admin credentials are not configured")
		}
		if _, err := repo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("username %q is taken by a non-admin user", username))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check admin username")
		}

		hash, err := security.HashPassword(s.adminCfg.Password, s.passwordCfg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
		}
		created, err := repo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			PasswordHash: hash,
			Role:         enums.RoleAdmin,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
		}
		admin = created
		s.logg.Info(s.logg.WithUserID(ctx, created.ID), "admin user created")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users.FromModel(admin), nil
}

// AdminID returns the id of the sole ADMIN user.
func (s *adminService) AdminID(ctx context.Context) (int64, error) {
	admin, err := s.users.FindFirstByRole(ctx, enums.RoleAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "admin user not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}
	return admin.ID, nil
}
