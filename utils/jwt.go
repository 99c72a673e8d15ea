package utils

import (
	"fmt"
	"time"

	"voyago/config"

	"github.com/golang-jwt/jwt"
)

// GenerateGuestToken issues a signed token carrying the guest id. Identity
// itself is managed by an external collaborator; the engine only needs an
// opaque, verified guest id.
func GenerateGuestToken(guestID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": guestID,
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ExtractGuestIDFromToken verifies the token and returns the guest id.
func ExtractGuestIDFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}
