// Package hash provides password hashing for user credentials.
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the cost factor for password hashing.
const bcryptCost = 12

// Password hashes a plaintext password for storage.
func Password(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt failed: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether a plaintext password matches a stored hash.
// bcrypt's comparison is constant-time over the hash.
func VerifyPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
