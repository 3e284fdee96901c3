// Package auth mints and verifies the bearer tokens that authorize
// publishing to the feed.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/mediavault/internal/common"
)

// Claims carries the registered claims plus the publisher name.
type Claims struct {
	jwt.RegisteredClaims
	Publisher string `json:"publisher"`
}

// GenerateToken signs an HS256 token for publisher that expires after
// validityDuration.
func GenerateToken(publisher string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Publisher: publisher,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// PublisherFromToken verifies tokenString and returns its publisher.
// Expired tokens yield common.ErrTokenExpired; any other failure yields an
// error wrapping common.ErrInvalidToken.
func PublisherFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Publisher == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Publisher, nil
}
