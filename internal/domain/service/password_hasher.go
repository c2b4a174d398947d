// Package service declares what the use cases need from infrastructure: password hashing,
// token issuing, product image storage and business metrics.
package service

// MaxPasswordBytes is the longest password a PasswordHasher accepts. bcrypt ignores every byte past it.
const MaxPasswordBytes = 72

// PasswordHasher hashes account passwords at registration and verifies them at login.
type PasswordHasher interface {
	// Hash returns a salted hash of password. Passwords longer than MaxPasswordBytes are rejected.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash never matches.
	Check(password, hash string) bool
}
