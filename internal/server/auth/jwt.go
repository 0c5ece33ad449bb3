// Package auth issues and verifies session tokens and password hashes.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session token claims: the standard registered claims plus
// the user's id and email.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// IssueToken signs an HS256 token for the user expiring after validity.
func IssueToken(userID, email string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
		Email:  email,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the token and returns its claims. Expired tokens yield
// common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
