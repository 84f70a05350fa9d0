package token

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims structure for custom claims in JWT
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Secrets for JWT signing and validation. Overridable through the
// environment so every service verifies against the same keys.
var (
	AccessSecret  = secretFromEnv("ACCESS_TOKEN_SECRET", "community_access_secret")
	RefreshSecret = secretFromEnv("REFRESH_TOKEN_SECRET", "community_refresh_secret")

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

func secretFromEnv(key, fallback string) []byte {
	if v := os.Getenv(key); v != "" {
		return []byte(v)
	}
	return []byte(fallback)
}

// GenerateAccessToken generates a short-lived access JWT
func GenerateAccessToken(userID, issuer string) (string, error) {
	return generate(userID, issuer, accessTokenTTL, AccessSecret)
}

// GenerateRefreshToken generates a long-lived refresh JWT
func GenerateRefreshToken(userID, issuer string) (string, error) {
	return generate(userID, issuer, refreshTokenTTL, RefreshSecret)
}

func generate(userID, issuer string, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccessToken parses an access JWT and extracts the Claims.
// An expired or tampered token returns an error.
func ParseAccessToken(tokenStr string) (*Claims, error) {
	return parse(tokenStr, AccessSecret)
}

// ParseRefreshToken parses a refresh JWT and extracts the Claims
func ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parse(tokenStr, RefreshSecret)
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Check if the signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
