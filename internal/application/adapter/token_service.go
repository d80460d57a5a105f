package adapter

// TokenService defines the interface for API token validation.
type TokenService interface {
	// ValidateToken verifies a bearer token and returns its subject claim.
	ValidateToken(tokenString string) (string, error)
}
