// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	// The nil-hash path exists so login can burn a verification on
	// unknown emails; it must always report a mismatch.
	ok, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignAndVerifyHMAC(t *testing.T) {
	body := []byte(`{"job_id":"abc","rows":[]}`)

	signature := SignHMAC("secret", body)
	assert.NotEmpty(t, signature)

	assert.True(t, VerifyHMAC("secret", body, signature))
	assert.False(t, VerifyHMAC("other-secret", body, signature))
	assert.False(t, VerifyHMAC("secret", []byte("tampered"), signature))
	assert.False(t, VerifyHMAC("secret", body, ""))
	assert.False(t, VerifyHMAC("secret", body, "zz"+signature[2:]))
}

func TestGenerateSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(16)
	require.NoError(t, err)
	second, err := GenerateSecureToken(16)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, first, 24) // 16 random bytes, base64-encoded
}
