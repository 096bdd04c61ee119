package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/microblog/go-server/internal/auth"
	"github.com/microblog/go-server/internal/util"
)

func newCodec(t *testing.T, secret string, clock util.Clock) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec(secret, 24*time.Hour, clock)
	require.NoError(t, err)
	return c
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := auth.NewCodec("", 0, nil)
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	clock := util.NewStubClock()
	c := newCodec(t, "test-secret", clock)

	tok, err := c.Issue(42, "alice", true)
	require.NoError(t, err)

	claims, err := c.Verify(tok)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	require.Equal(t, "alice", claims.Username)
	require.True(t, claims.IsAdmin)
	require.Equal(t, clock.NowUtc().Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestVerifyExpired(t *testing.T) {
	clock := util.NewStubClock()
	c := newCodec(t, "test-secret", clock)

	tok, err := c.Issue(1, "bob", false)
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	_, err = c.Verify(tok)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = c.Verify(tok)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	clock := util.NewStubClock()
	issuer := newCodec(t, "secret-one", clock)
	verifier := newCodec(t, "secret-two", clock)

	tok, err := issuer.Issue(1, "bob", false)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	clock := util.NewStubClock()
	c := newCodec(t, "test-secret", clock)

	// Same secret, different HMAC variant: still rejected.
	hs384 := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
		"sub": "1",
		"exp": clock.NowUtc().Add(time.Hour).Unix(),
	})
	raw, err := hs384.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = c.Verify(raw)
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	// Unsigned "none" token.
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"})
	raw, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(raw)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	c := newCodec(t, "test-secret", nil)
	for _, raw := range []string{"", "garbage", "a.b.c", "ey.ey.ey"} {
		_, err := c.Verify(raw)
		require.ErrorIs(t, err, auth.ErrInvalidToken, raw)
	}
}
