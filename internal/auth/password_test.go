package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microblog/go-server/internal/auth"
)

func TestHashAndCheckPassword(t *testing.T) {
	const pw = "correct horse battery staple"

	hash, err := auth.HashPassword(pw)
	require.NoError(t, err)
	require.NotEqual(t, pw, hash)

	require.True(t, auth.CheckPassword(hash, pw))
	require.False(t, auth.CheckPassword(hash, pw+"x"))
	require.False(t, auth.CheckPassword(hash, "correct horse battery stapl"))
}

func TestHashPasswordSaltsPerCall(t *testing.T) {
	h1, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	h2, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
	require.True(t, auth.CheckPassword(h1, "hunter2hunter2"))
	require.True(t, auth.CheckPassword(h2, "hunter2hunter2"))
}

func TestCheckPasswordMutatedHash(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	// Corrupt one character inside the checksum portion.
	mutated := []byte(hash)
	i := len(mutated) - 10
	if mutated[i] == 'a' {
		mutated[i] = 'b'
	} else {
		mutated[i] = 'a'
	}
	require.False(t, auth.CheckPassword(string(mutated), "hunter2hunter2"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	// Treated as verification failure, never a panic.
	require.False(t, auth.CheckPassword("", "pw"))
	require.False(t, auth.CheckPassword("not-a-bcrypt-hash", "pw"))
	require.False(t, auth.CheckPassword("$2a$gibberish", "pw"))
}
