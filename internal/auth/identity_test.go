package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microblog/go-server/internal/auth"
	"github.com/microblog/go-server/internal/util"
)

func TestResolve(t *testing.T) {
	clock := util.NewStubClock()
	c := newCodec(t, "test-secret", clock)

	require.Equal(t, auth.Anonymous(), c.Resolve(""))
	require.Equal(t, auth.Anonymous(), c.Resolve("garbage"))

	// Wrongly signed tokens demote to anonymous, they never error.
	other := newCodec(t, "other-secret", clock)
	forged, err := other.Issue(7, "mallory", true)
	require.NoError(t, err)
	require.Equal(t, auth.Anonymous(), c.Resolve(forged))

	tok, err := c.Issue(42, "alice", false)
	require.NoError(t, err)
	ident := c.Resolve(tok)
	require.True(t, ident.Connected)
	require.Equal(t, int64(42), ident.UserID)
	require.Equal(t, "alice", ident.Username)
	require.False(t, ident.IsAdmin)
}

func TestMiddlewareNeverRejects(t *testing.T) {
	clock := util.NewStubClock()
	c := newCodec(t, "test-secret", clock)

	var got auth.Identity
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No credential: handler still runs, identity is anonymous.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, got.Connected)

	// Syntactically valid but wrongly signed: still anonymous, still 200.
	other := newCodec(t, "other-secret", clock)
	forged, err := other.Issue(7, "mallory", false)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, got.Connected)

	// Valid token: authenticated identity reaches the handler.
	tok, err := c.Issue(42, "alice", true)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, got.Connected)
	require.Equal(t, int64(42), got.UserID)
	require.True(t, got.IsAdmin)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "", auth.BearerToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	require.Equal(t, "abc123", auth.BearerToken(req))

	req.Header.Set("Authorization", "bearer abc123")
	require.Equal(t, "abc123", auth.BearerToken(req))

	req.Header.Set("Authorization", "Basic abc123")
	require.Equal(t, "", auth.BearerToken(req))
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, auth.Anonymous(), auth.FromContext(req.Context()))
}
