package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("Sup3r-secret")
	assert.NoError(t, err)
	assert.NotEqual(t, "Sup3r-secret", hash)

	assert.True(t, svc.Verify(hash, "Sup3r-secret"))
	assert.False(t, svc.Verify(hash, "sup3r-secret"))
	assert.False(t, svc.Verify("not-a-hash", "Sup3r-secret"))
}

func TestPasswordGenerate(t *testing.T) {
	svc := NewPasswordService()

	password, err := svc.Generate(20)
	assert.NoError(t, err)
	assert.Len(t, password, 20)
	for _, r := range password {
		assert.True(t, strings.ContainsRune(passwordCharset, r), "unexpected character %q", r)
	}

	// Non-positive length falls back to the default
	password, err = svc.Generate(0)
	assert.NoError(t, err)
	assert.Len(t, password, DefaultGeneratedLength)

	a, _ := svc.Generate(20)
	b, _ := svc.Generate(20)
	assert.NotEqual(t, a, b)
}

func TestValidateStrength(t *testing.T) {
	svc := NewPasswordService()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "Abcdef1!", nil},
		{"too short", "Ab1!", ErrWeakPassword},
		{"no uppercase", "abcdef1!", ErrWeakPassword},
		{"no lowercase", "ABCDEF1!", ErrWeakPassword},
		{"no digit", "Abcdefg!", ErrWeakPassword},
		{"no symbol", "Abcdefg1", ErrWeakPassword},
		{"empty", "", ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateStrength(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
