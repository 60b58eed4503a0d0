package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateRefreshToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := GenerateRefreshToken()
		require.NoError(t, err)
		assert.Len(t, tok, 43)
		_, dup := seen[tok]
		assert.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestHashRefreshToken(t *testing.T) {
	a := HashRefreshToken("abc")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashRefreshToken("abc"))
	assert.NotEqual(t, a, HashRefreshToken("abd"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, ComparePassword(hash, "hunter2"))
	assert.False(t, ComparePassword(hash, "hunter3"))
	assert.False(t, ComparePassword("not-a-hash", "hunter2"))

	assert.True(t, NeedsRehash(hash, bcrypt.MinCost+1))
	assert.False(t, NeedsRehash(hash, bcrypt.MinCost))
	assert.False(t, NeedsRehash("not-a-hash", 12))
}
