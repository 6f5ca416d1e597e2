package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"expense-tracker/api/models"
)

// TokenTTL is the session lifetime. There is no server-side revocation:
// a minted token stays valid until this expires.
const TokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: TokenTTL}
}

// Mint signs a token carrying userID, expiring after the session TTL.
func (ti *TokenIssuer) Mint(userID string) (string, error) {
	now := time.Now()
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
func (ti *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
