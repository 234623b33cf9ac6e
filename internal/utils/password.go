package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// MinPasswordLength is the shortest password accepted for new credentials.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("Passwords do not match")
)

// NormalizePassword applies NFKC so that visually identical input hashes identically.
func NormalizePassword(password string) string {
	return norm.NFKC.String(password)
}

// ValidateNewPassword normalises password and confirm and checks length and equality.
// It returns the normalised password.
func ValidateNewPassword(password, confirm string) (string, error) {
	password = NormalizePassword(password)
	confirm = NormalizePassword(confirm)
	if len([]rune(password)) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if password != confirm {
		return "", ErrPasswordMismatch
	}
	return password, nil
}

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
