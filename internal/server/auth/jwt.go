// Package auth issues and validates the signed access tokens that carry the
// authenticated user identity between the API layer and its callers.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okarpovs/doclib/internal/common"
)

// Claims extends the registered JWT claims with the authenticated UserID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken signs a HS256 token carrying userID, valid for
// validityDuration from now.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken parses and validates a token string and returns the
// UserID claim.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
