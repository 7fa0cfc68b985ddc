package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "catalog",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	payload := AccessTokenPayload{
		UserID:   42,
		Username: "shopper",
		Role:     enums.RoleUser,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != 42 {
		t.Fatalf("expected user_id 42, got %d", claims.UserID)
	}
	if claims.Username != "shopper" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
	if claims.Role != enums.RoleUser {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be generated")
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject to carry the user id, got %q", claims.Subject)
	}

	exp := now.Add(cfg.TTL())
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.UTC())
	}

	actor := claims.Actor()
	if !actor.Authenticated() || actor.IsAdmin() {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "catalog", ExpirationMinutes: 10}

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: enums.RoleAdmin})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}

	other := cfg
	other.Secret = "another"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "catalog", ExpirationMinutes: 15}

	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: 7, Role: enums.RoleUser})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintAccessTokenRejectsBadPayload(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "catalog", ExpirationMinutes: 5}

	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: ""}); err == nil {
		t.Fatal("expected invalid role error")
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 0, Role: enums.RoleUser}); err == nil {
		t.Fatal("expected invalid user id error")
	}
}

func TestMintAccessTokenRequiresSigningConfig(t *testing.T) {
	_, err := MintAccessToken(config.JWTConfig{Secret: "secret"}, time.Now(), AccessTokenPayload{UserID: 1, Role: enums.RoleUser})
	if !errors.Is(err, ErrSigningConfig) {
		t.Fatalf("expected signing config error, got %v", err)
	}
	if !strings.Contains(err.Error(), "issuer, expiration") {
		t.Fatalf("expected missing fields listed, got %v", err)
	}
}

func TestParseAccessTokenRejectsForeignSubject(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "catalog", ExpirationMinutes: 5}
	now := time.Now()
	claims := AccessTokenClaims{
		UserID: 9,
		Role:   enums.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); !errors.Is(err, ErrTokenSubject) {
		t.Fatalf("expected subject mismatch, got %v", err)
	}
}

func TestParseAccessTokenRejectsOtherIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "catalog", ExpirationMinutes: 5}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 2, Role: enums.RoleUser})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	cfg.Issuer = "someone-else"
	if _, err := ParseAccessToken(cfg, token); !errors.Is(err, jwt.ErrTokenInvalidIssuer) {
		t.Fatalf("expected issuer error, got %v", err)
	}
}

func TestActorCanModify(t *testing.T) {
	owner := Actor{UserID: 3, Role: enums.RoleUser}
	stranger := Actor{UserID: 4, Role: enums.RoleUser}
	admin := Actor{UserID: 1, Role: enums.RoleAdmin}

	if !owner.CanModify(3) {
		t.Fatal("owner should modify own resource")
	}
	if stranger.CanModify(3) {
		t.Fatal("stranger should not modify another user's resource")
	}
	if !admin.CanModify(3) {
		t.Fatal("admin should modify any resource")
	}
	if (Actor{}).CanModify(0) {
		t.Fatal("anonymous actor should never modify")
	}
}
