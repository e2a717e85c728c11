package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload captures the data available when minting a token.
type AccessTokenPayload struct {
	UserID int64
	Email  string
	Staff  bool
	JTI    string
}

// AccessTokenClaims is the typed JWT carried as the opaque token value in the
// Authorization header.
type AccessTokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Staff  bool   `json:"staff"`
	jwt.RegisteredClaims
}
