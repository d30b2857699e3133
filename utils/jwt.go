package utils

import (
	"errors"
	"time"

	"medconnect/models"

	"github.com/golang-jwt/jwt"
)

// GenerateToken creates a signed JWT for a client. The external auth service issues the
// real tokens; this is used by tests and local tooling.
func GenerateToken(secret []byte, subject, name string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"name": name,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(secret []byte, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// ExtractClientFromToken returns the client named by a valid token's "sub" and "name" claims.
func ExtractClientFromToken(secret []byte, tokenString string) (models.Client, error) {
	token, err := ValidateToken(secret, tokenString)
	if err != nil {
		return models.Client{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Client{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Client{}, errors.New("token does not contain a valid 'sub' claim")
	}
	name, _ := claims["name"].(string)
	return models.Client{ID: sub, Name: name}, nil
}
