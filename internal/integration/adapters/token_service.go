package adapters

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// apiClaims represents the claims expected on an API bearer token.
type apiClaims struct {
	jwt.RegisteredClaims
}

// tokenService implements the adapter.TokenService interface.
type tokenService struct {
	secret []byte
}

// NewTokenService creates a new token service instance.
func NewTokenService(secret string) adapter.TokenService {
	return &tokenService{
		secret: []byte(secret),
	}
}

// ValidateToken verifies a bearer token and returns its subject claim.
func (s *tokenService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &apiClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", domainerror.ErrInvalidToken
	}

	claims, ok := token.Claims.(*apiClaims)
	if !ok || !token.Valid {
		return "", domainerror.ErrInvalidToken
	}

	return claims.Subject, nil
}
