package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/ajcastillo/gearmart-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. This is
// the explicit session object handed to callers: user identity plus role,
// never ambient state.
type AccessTokenPayload struct {
	UserID uint
	Role   enums.Role
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uint       `json:"user_id"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}
