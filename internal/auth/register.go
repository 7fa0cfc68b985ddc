package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-backend/internal/users"
	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/db"
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/security"
)

const (
	userExistsMessage       = "User already exists!"
	multipleAccountsMessage = "Cannot create multiple accounts"
)

// RegisterService creates USER accounts.
type RegisterService interface {
	Register(ctx context.Context, caller pkgAuth.Actor, req RegisterRequest) (*users.UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner        txRunner
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
	PasswordConfig  config.PasswordConfig
}

type registerService struct {
	tx              txRunner
	userRepoFactory func(tx *gorm.DB) registerUserRepository
	passwordCfg     config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	factory := params.UserRepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) }
	}
	return &registerService{
		tx:              params.TxRunner,
		userRepoFactory: factory,
		passwordCfg:     params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, caller pkgAuth.Actor, req RegisterRequest) (*users.UserDTO, error) {
	if caller.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, multipleAccountsMessage)
	}
	username := strings.TrimSpace(req.Username)
	if len(username) < 4 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Username must be at least 4 characters")
	}
	if len(req.Password) < 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Password must be at least 5 characters")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepoFactory(tx)

		if _, err := userRepo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, userExistsMessage)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			PasswordHash: passwordHash,
			Role:         enums.RoleUser,
		})
		if err != nil {
			// a concurrent registration can win between the lookup and the insert
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, userExistsMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
