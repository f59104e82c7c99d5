package pkg

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return BytesToString(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsPasswordHash reports whether secret looks like a bcrypt hash ($2a$, $2b$, $2y$).
func IsPasswordHash(secret string) bool {
	return strings.HasPrefix(secret, "$2") && len(secret) == 60
}

// SecretMatches compares the user input against the configured secret, which may be
// stored either in plain text or as a bcrypt hash. An empty secret never matches.
func SecretMatches(input, secret string) bool {
	if secret == "" || input == "" {
		return false
	}
	if IsPasswordHash(secret) {
		return CheckPasswordHash(input, secret)
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(secret)) == 1
}
