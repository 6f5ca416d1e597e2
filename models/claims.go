package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT payload of a session token. The user id
// travels in the "id" claim, matching what the client stores.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}
