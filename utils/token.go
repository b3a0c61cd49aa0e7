package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewSessionToken returns a 256-bit random token for session cookies.
func NewSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type ResetClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateResetToken signs a password-reset token carrying the user id. The
// token is also persisted on the user row so it can only be used once.
func GenerateResetToken(userID uint, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("reset token secret is not set")
	}
	claims := ResetClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyResetToken validates the signature and expiry of a reset token.
func VerifyResetToken(tokenStr, secret string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ResetClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid reset token")
	}
	return claims, nil
}
