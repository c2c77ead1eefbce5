package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is fixed for the whole user table; changing it only
	// affects hashes written afterwards.
	BcryptCost = 10

	// VerificationTokenBytes of entropy per email verification token.
	VerificationTokenBytes = 32
)

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// GenerateVerificationToken returns a hex-encoded random token used in
// email verification links. Single-use: the row's copy is nulled when
// the account activates.
func GenerateVerificationToken() (string, error) {
	bytes := make([]byte, VerificationTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
