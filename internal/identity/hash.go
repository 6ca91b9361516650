package identity

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrWeakPassword = errors.New("password must be at least 6 characters and include a digit and a special character")

const passwordSpecials = "!@#$%^&*()-_=+[{]}\\|;:'\",<.>/?`~"

// CheckPasswordPolicy enforces the registration password rules: minimum
// length 6, at least one digit, at least one special character.
func CheckPasswordPolicy(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	hasDigit := false
	for _, r := range password {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return ErrWeakPassword
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword produces a salted bcrypt hash of the password. Never store
// the password itself or an unsalted digest of it.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
