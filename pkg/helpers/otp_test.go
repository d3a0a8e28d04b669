package helpers

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenOTPCode(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]{4}$`)
	for i := 0; i < 50; i++ {
		code, err := GenOTPCode(OTPLength)
		require.NoError(t, err)
		assert.Regexp(t, digits, code)
	}
}

func TestGenVerificationToken(t *testing.T) {
	a, err := GenVerificationToken(20)
	require.NoError(t, err)
	b, err := GenVerificationToken(20)
	require.NoError(t, err)

	assert.Len(t, a, 40)
	assert.NotEqual(t, a, b)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, "pw1", hash)
	assert.True(t, CompareHashAndPassword(hash, "pw1"))
	assert.False(t, CompareHashAndPassword(hash, "pw2"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "pw1"))
}
