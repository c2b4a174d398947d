// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	// Role is only honoured when admin self-registration is enabled; customer otherwise.
	Role string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// EnsureAdminInput identifies the administrator that must exist.
type EnsureAdminInput struct {
	Name     string
	Email    string
	Password string
}

// --- Output DTOs ---

// AuthOutput is the profile and bearer token returned by register and login.
type AuthOutput struct {
	User  *entity.User
	Token string
}

// AuthUsecase defines the interface for account and credential operations.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// Authenticate resolves a bearer token to the current state of its user.
	Authenticate(ctx context.Context, token string) (*entity.User, error)

	// EnsureAdmin creates the admin, or promotes the existing account and resets its password.
	// created reports whether a new account was inserted.
	EnsureAdmin(ctx context.Context, input EnsureAdminInput) (user *entity.User, created bool, err error)
}
