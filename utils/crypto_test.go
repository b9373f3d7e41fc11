package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	hash, err := HashPassword("mipassword123")
	require.NoError(t, err)

	assert.NotEqual(t, "mipassword123", hash)
	assert.True(t, CheckPasswordHash("mipassword123", hash))
	assert.False(t, CheckPasswordHash("otra", hash))
	assert.False(t, CheckPasswordHash("mipassword123", "not-a-hash"))
}
