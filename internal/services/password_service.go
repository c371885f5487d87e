package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultGeneratedLength is the length of system-generated one-time
	// passwords handed to invited admins.
	DefaultGeneratedLength = 12

	minPasswordLength = 8

	passwordCharset = "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// PasswordService hashes, verifies and generates passwords.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	Generate(length int) (string, error)
	ValidateStrength(password string) error
}

type passwordService struct {
	cost int
}

func NewPasswordService() PasswordService {
	return &passwordService{cost: bcrypt.DefaultCost}
}

func (s *passwordService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *passwordService) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Generate returns a random password drawn from letters, digits and
// punctuation using crypto/rand. A non-positive length falls back to
// DefaultGeneratedLength.
func (s *passwordService) Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultGeneratedLength
	}
	max := big.NewInt(int64(len(passwordCharset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}

// ValidateStrength requires at least 8 characters with a lowercase letter,
// an uppercase letter, a digit and a symbol.
func (s *passwordService) ValidateStrength(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return ErrWeakPassword
	}
	return nil
}
