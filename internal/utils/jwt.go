package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSubject is the fixed "sub" claim. The auth layer carries no user
// identity; tokens only gate access to the API.
const jwtSubject = "sync-client"

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token with the given
// issuer and lifetime. All parameters are required.
func GenerateJWTToken(issuer string, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   jwtSubject,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWTToken verifies the signature, issuer and expiration of
// tokenString. Returns an error for any invalid token.
func ValidateJWTToken(tokenString, tokenSignKey, tokenIssuer string) error {
	_, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	return nil
}

func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
