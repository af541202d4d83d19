package api

import (
	"github.com/gorilla/mux"

	"github.com/searchrail/searchrail/internal/api/recovery"
	"github.com/searchrail/searchrail/internal/auth"
	"github.com/searchrail/searchrail/internal/services"
	"github.com/searchrail/searchrail/internal/store"
)

// NewRouter wires all API routes over the given store. The health endpoint is
// registered outside the auth middleware so probes work without credentials.
func NewRouter(st store.Store, authz auth.Authorizer) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	userService := services.NewUserService(st)
	searchService := services.NewSearchService(st)

	healthHandler := NewHealthHandler()
	userHandler := NewUserHandler(userService)
	searchHandler := NewSearchHandler(searchService, st.Searches())

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Everything below requires an API key
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware(authz))

	// User endpoints
	authed.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	authed.HandleFunc("/users/{userId}", userHandler.GetUser).Methods("GET")

	// Saved-search endpoints
	authed.HandleFunc("/users/{userId}/searches", searchHandler.CreateSearch).Methods("POST")
	authed.HandleFunc("/users/{userId}/searches", searchHandler.ListSearches).Methods("GET")
	authed.HandleFunc("/users/{userId}/searches/{searchId:[0-9a-fA-F-]{36}}", searchHandler.GetSearch).Methods("GET")
	authed.HandleFunc("/users/{userId}/searches/{searchId:[0-9a-fA-F-]{36}}", searchHandler.UpdateSearch).Methods("PATCH")
	authed.HandleFunc("/users/{userId}/searches/{searchId:[0-9a-fA-F-]{36}}", searchHandler.DeleteSearch).Methods("DELETE")

	return router
}
