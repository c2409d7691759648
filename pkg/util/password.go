package util

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Work factor for stored credentials. Raising it invalidates nothing;
// existing hashes keep the cost they were created with.
const passwordHashCost = 12

// HashPassword derives a bcrypt hash of a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
