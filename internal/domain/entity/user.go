// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"regexp"
	"strings"
	"time"

	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// User is an account that can sign in to the storefront, either as a customer or an administrator.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Name         string    // The user's display name, trimmed.
	Email        string    // Login identifier, stored trimmed and lower-cased.
	PasswordHash string    // bcrypt hash; never serialized outward.
	Role         Role      // admin or customer.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// NewUser builds a customer account with normalized name and email. The password is set separately.
func NewUser(name, email string, role Role) *User {
	if !role.IsValid() {
		role = RoleCustomer
	}

	return &User{
		ID:    uuid.Must(uuid.NewV7()),
		Name:  strings.TrimSpace(name),
		Email: NormalizeEmail(email),
		Role:  role,
	}
}

// SetPassword hashes password with hasher and stores the result. It always re-hashes.
func (u *User) SetPassword(hasher service.PasswordHasher, password string) error {
	hash, err := hasher.Hash(password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	u.PasswordHash = hash

	return nil
}

// MatchPassword compares a plaintext password against the stored hash.
func (u *User) MatchPassword(hasher service.PasswordHasher, password string) bool {
	if u.PasswordHash == "" {
		return false
	}

	return hasher.Check(password, u.PasswordHash)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks an already normalized address against the accepted email format.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
