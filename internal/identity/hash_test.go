package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "secr3t!", true},
		{"too short", "a1!", false},
		{"no digit", "secret!", false},
		{"no special", "secret1", false},
		{"digit and special at minimum length", "abc1!x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrWeakPassword)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secr3t!")
	require.NoError(t, err)
	require.NotEqual(t, "secr3t!", hash)

	assert.True(t, VerifyPassword("secr3t!", hash))
	assert.False(t, VerifyPassword("wrong", hash))

	// Salted: hashing twice produces different digests.
	hash2, err := HashPassword("secr3t!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}
