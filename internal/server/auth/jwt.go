// Package auth issues and verifies the JWTs the development backend keeps in
// the accessToken and refreshToken cookies.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Kind separates access tokens from refresh tokens so one can't be used in
// place of the other.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims are the registered claims plus the username and token kind.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Kind     Kind   `json:"kind"`
}

func GenerateToken(username string, kind Kind, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			Subject:   username,
		},
		Username: username,
		Kind:     kind,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns the username it was issued
// for. Expired tokens yield ErrTokenExpired; anything else that fails
// verification, including a token of the wrong kind, yields ErrInvalidToken.
func ParseToken(tokenString string, kind Kind, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.Kind != kind || claims.Username == "" {
		return "", ErrInvalidToken
	}

	return claims.Username, nil
}
