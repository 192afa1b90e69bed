package utils

import "golang.org/x/crypto/bcrypt"

// bcryptCost is pinned so that changing the library default cannot
// silently change hashing behavior between deploys.
const bcryptCost = bcrypt.DefaultCost

// HashPassword hashes a plaintext password for storage in the users table.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(b), err
}

// CheckPassword compares a stored hash against a login attempt.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
