package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_InjectsActor(t *testing.T) {
	var seen *ActorInfo
	handler := Middleware(NewMockAuthorizer())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/alice/searches", nil)
	req.Header.Set("Authorization", "Bearer sk_local_alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.ActorID)
}

func TestMiddleware_RejectsMissingOrBadKey(t *testing.T) {
	handler := Middleware(NewMockAuthorizer())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer not_a_dev_key"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/alice/searches", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestExtractAPIKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sk_local_bob")
	key, err := ExtractAPIKey(req)
	require.NoError(t, err)
	assert.Equal(t, "sk_local_bob", key)
}
