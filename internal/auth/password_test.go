package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_ProducesUniqueHashes(t *testing.T) {
	hash1, err := HashPassword("super_password123")
	require.NoError(t, err)
	hash2, err := HashPassword("super_password123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash1, "$argon2id$"))
	assert.NotEqual(t, hash1, hash2, "salts must differ between hashes")
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("super_password123")
	require.NoError(t, err)

	ok, err := CheckPasswordHash("super_password123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPasswordHash("wrong_password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPasswordHash_Malformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$notbase64!!$alsonot",
		"$bcrypt$something$else",
	} {
		_, err := CheckPasswordHash("super_password123", encoded)
		assert.Error(t, err, "encoded=%q", encoded)
	}
}
