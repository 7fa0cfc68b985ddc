package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service verifies credentials and issues access tokens.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (pkgAuth.Actor, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type userRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	users       userRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:       params.UserRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		now:         now,
	}, nil
}

// Authenticate checks the username/password pair against the stored argon2id
// hash. Unknown users and wrong passwords are indistinguishable to callers.
func (s *service) Authenticate(ctx context.Context, username, password string) (pkgAuth.Actor, error) {
	input := strings.TrimSpace(username)
	if input == "" || password == "" {
		return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByUsername(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return pkgAuth.Actor{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return pkgAuth.Actor{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	s.maybeRehash(ctx, user, password)

	return pkgAuth.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	actor, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   actor.UserID,
		Username: actor.Username,
		Role:     actor.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.jwtCfg.TTL().Seconds()),
	}, nil
}

// maybeRehash upgrades hashes created under weaker argon2 parameters. Failures
// are logged and never block the login.
func (s *service) maybeRehash(ctx context.Context, user *models.User, password string) {
	stale, err := security.NeedsRehash(user.PasswordHash, s.passwordCfg)
	if err != nil || !stale {
		return
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID), "password rehash failed: "+err.Error())
	}
}
