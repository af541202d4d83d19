package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

type contextKey struct{}

// ActorFromContext returns the authenticated actor injected by Middleware.
func ActorFromContext(ctx context.Context) (*ActorInfo, bool) {
	actor, ok := ctx.Value(contextKey{}).(*ActorInfo)
	return actor, ok
}

// Middleware authenticates every request through the Authorizer and stores
// the resulting actor in the request context. Handlers downstream never see
// an unauthenticated request; decorator-style per-handler auth is deliberately
// not used.
func Middleware(authz Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey, err := ExtractAPIKey(r)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			actor, err := authz.Authorize(r.Context(), apiKey, r.Method, r.URL.Path)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("authorization rejected")
				unauthorized(w, "invalid API key")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, actor)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized","code":401,"message":"` + msg + `"}`))
}
