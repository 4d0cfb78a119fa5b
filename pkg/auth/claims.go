package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting an admin JWT.
type AccessTokenPayload struct {
	AdminID int64
	Email   string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to admin panel clients.
type AccessTokenClaims struct {
	AdminID int64  `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}
