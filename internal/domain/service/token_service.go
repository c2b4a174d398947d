package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by access tokens.
type Claims struct {
	UserID uuid.UUID
	Role   string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// IssueToken creates a signed access token for a given user.
	IssueToken(userID uuid.UUID, role string) (string, error)

	// ValidateToken checks signature, algorithm and expiry and returns the decoded claims.
	ValidateToken(tokenString string) (*Claims, error)

	// TokenTTL returns the configured lifetime of issued tokens.
	TokenTTL() time.Duration
}
