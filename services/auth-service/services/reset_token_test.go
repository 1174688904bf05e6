package services

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	token, digest, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, token, 64)
	_, err = hex.DecodeString(token)
	assert.NoError(t, err)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, token, digest)
	assert.Equal(t, HashResetToken(token), digest)

	other, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestResetTokenMatches(t *testing.T) {
	token, digest, err := GenerateResetToken()
	require.NoError(t, err)

	assert.True(t, resetTokenMatches(token, digest))
	assert.True(t, resetTokenMatches(strings.ToUpper(token), digest))
	assert.False(t, resetTokenMatches(token[:63]+"x", digest))
	assert.False(t, resetTokenMatches(token, ""))
}

func TestPasswordResetEmail(t *testing.T) {
	body := buildPasswordResetEmailHTML("abc123", time.Hour)
	assert.Equal(t,
		"<p>You requested to reset your password.</p>"+
			"<p>Paste this code to reset password: abc123</p>"+
			"<p>This code will expire in 1 hour.</p>",
		body)

	assert.Equal(t, "30 minutes", humanizeTTL(30*time.Minute))
	assert.Equal(t, "2 hours", humanizeTTL(2*time.Hour))
	assert.Equal(t, "90 minutes", humanizeTTL(90*time.Minute))
	assert.Equal(t, "1m30s", humanizeTTL(90*time.Second))
}
