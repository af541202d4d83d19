package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchrail/searchrail/internal/model"
)

// newFakeServer returns a server that records the last request and replies
// with the given status and body.
func newFakeServer(t *testing.T, register func(r *mux.Router)) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestCreateSearchSendsAuthAndBody(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	srv := newFakeServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/users/{userId}/searches", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			_ = json.NewDecoder(req.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(model.SavedSearch{
				SearchID: "s-1",
				OwnerID:  mux.Vars(req)["userId"],
				Name:     gotBody["name"],
				Query:    gotBody["query"],
				Position: 0,
			})
		}).Methods("POST")
	})

	c := New(srv.URL, "sk_local_alice")
	out, err := c.CreateSearch(context.Background(), "alice", "inbox", "in:inbox")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_local_alice", gotAuth)
	assert.Equal(t, map[string]string{"name": "inbox", "query": "in:inbox"}, gotBody)
	assert.Equal(t, "s-1", out.SearchID)
	assert.Equal(t, 0, out.Position)
}

func TestListSearchesUnwrapsEnvelope(t *testing.T) {
	srv := newFakeServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/users/{userId}/searches", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"searches": []model.SavedSearch{
					{SearchID: "a", Position: 0},
					{SearchID: "b", Position: 1},
				},
				"count": 2,
			})
		}).Methods("GET")
	})

	c := New(srv.URL, "sk_local_alice")
	out, err := c.ListSearches(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].SearchID)
	assert.Equal(t, "b", out[1].SearchID)
}

func TestMoveSearchPatchesPositionOnly(t *testing.T) {
	var gotBody map[string]interface{}

	srv := newFakeServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/users/{userId}/searches/{searchId}", func(w http.ResponseWriter, req *http.Request) {
			_ = json.NewDecoder(req.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(model.SavedSearch{SearchID: mux.Vars(req)["searchId"], Position: 2})
		}).Methods("PATCH")
	})

	c := New(srv.URL, "sk_local_alice")
	out, err := c.MoveSearch(context.Background(), "alice", "s-1", 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"position": float64(2)}, gotBody)
	assert.Equal(t, 2, out.Position)
}

func TestErrorBodyIsSurfaced(t *testing.T) {
	srv := newFakeServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/users/{userId}/searches/{searchId}", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Bad Request","code":400,"message":"position 9 out of range"}`))
		}).Methods("PATCH")
	})

	c := New(srv.URL, "sk_local_alice")
	_, err := c.MoveSearch(context.Background(), "alice", "s-1", 9)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "out of range")
}

func TestDeleteSearch(t *testing.T) {
	srv := newFakeServer(t, func(r *mux.Router) {
		r.HandleFunc("/api/users/{userId}/searches/{searchId}", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}).Methods("DELETE")
	})

	c := New(srv.URL, "sk_local_alice")
	assert.NoError(t, c.DeleteSearch(context.Background(), "alice", "s-1"))
}
