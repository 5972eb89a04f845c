package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/secstack/identity-api/internal/core/domain"
)

// dummyHash is a valid bcrypt hash of a throwaway string. Login attempts for
// unknown usernames are verified against it so the not-found path costs the
// same hash work as a wrong password, keeping the two indistinguishable.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword derives a salted bcrypt hash from a plaintext password. The
// salt is generated by bcrypt and embedded in the returned hash string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// Returns nil on match, domain.ErrInvalidCredentials on mismatch, and
// domain.ErrCorruptCredential when the stored hash cannot be parsed at all.
// The underlying comparison is constant-time.
func VerifyPassword(password, storedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domain.ErrInvalidCredentials
	default:
		// Anything else means the stored hash itself is unusable.
		return domain.ErrCorruptCredential
	}
}

// burnPasswordCheck performs a bcrypt comparison against dummyHash and
// discards the result.
func burnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
