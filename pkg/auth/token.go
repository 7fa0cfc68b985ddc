package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/catalog-backend/pkg/config"
)

const clockSkew = 30 * time.Second

var (
	signingMethod = jwt.SigningMethodHS256

	ErrSigningConfig = errors.New("jwt signing config incomplete")
	ErrTokenSubject  = errors.New("token subject does not match user id")
)

func checkSigningConfig(cfg config.JWTConfig) error {
	var missing []string
	if cfg.Secret == "" {
		missing = append(missing, "secret")
	}
	if cfg.Issuer == "" {
		missing = append(missing, "issuer")
	}
	if cfg.TTL() <= 0 {
		missing = append(missing, "expiration")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrSigningConfig, strings.Join(missing, ", "))
	}
	return nil
}

// MintAccessToken signs an HS256 token for the user. The subject carries the
// numeric user id and the JTI is generated when the payload leaves it blank.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkSigningConfig(cfg); err != nil {
		return "", err
	}
	switch {
	case payload.UserID <= 0:
		return "", fmt.Errorf("mint token: user id %d is not positive", payload.UserID)
	case !payload.Role.IsValid():
		return "", fmt.Errorf("mint token: invalid role %q", payload.Role)
	}

	id := strings.TrimSpace(payload.JTI)
	if id == "" {
		id = uuid.NewString()
	}
	claims := AccessTokenClaims{
		UserID:   payload.UserID,
		Username: payload.Username,
		Role:     payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    cfg.Issuer,
			Subject:   strconv.FormatInt(payload.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer and expiry, then checks that the
// embedded role and subject are coherent.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: secret", ErrSigningConfig)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
	)
	claims := new(AccessTokenClaims)
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}); err != nil {
		return nil, err
	}

	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("parse token: invalid role %q", claims.Role)
	}
	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, ErrTokenSubject
	}
	return claims, nil
}
