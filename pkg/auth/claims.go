package auth

import (
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   int64
	Username string
	Role     enums.Role
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   int64      `json:"user_id"`
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the caller identity carried by the token.
func (c *AccessTokenClaims) Actor() Actor {
	return Actor{UserID: c.UserID, Username: c.Username, Role: c.Role}
}
