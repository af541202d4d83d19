package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/searchrail/searchrail/internal/api/respond"
	"github.com/searchrail/searchrail/internal/api/validate"
	"github.com/searchrail/searchrail/internal/auth"
	"github.com/searchrail/searchrail/internal/loader"
	"github.com/searchrail/searchrail/internal/model"
	"github.com/searchrail/searchrail/internal/services"
	"github.com/searchrail/searchrail/internal/store"
)

// SearchHandler exposes the saved-search endpoints. Every route is scoped to
// a {userId} path segment; the authenticated actor must match it.
type SearchHandler struct {
	svc      *services.SearchService
	searches store.Searches
}

func NewSearchHandler(svc *services.SearchService, searches store.Searches) *SearchHandler {
	return &SearchHandler{svc: svc, searches: searches}
}

// requireOwner returns the path owner id, or writes 403/400 and returns "".
// The actor id comes from the auth middleware; a mismatch never reveals
// whether the target resource exists.
func (h *SearchHandler) requireOwner(w http.ResponseWriter, r *http.Request) string {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respond.WriteBadRequest(w, "userId required")
		return ""
	}
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor.ActorID != userID {
		respond.WriteForbidden(w, "actor does not own this resource")
		return ""
	}
	return userID
}

func (h *SearchHandler) CreateSearch(w http.ResponseWriter, r *http.Request) {
	ownerID := h.requireOwner(w, r)
	if ownerID == "" {
		return
	}
	var in struct {
		Name  string `json:"name"`
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.CreateSearch(in.Name, in.Query); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.CreateSearch(r.Context(), ownerID, in.Name, in.Query)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListSearches reads through a request-scoped loader so repeated reads inside
// one request hit the store once. The loader is built here and discarded with
// the request; it never outlives it.
func (h *SearchHandler) ListSearches(w http.ResponseWriter, r *http.Request) {
	ownerID := h.requireOwner(w, r)
	if ownerID == "" {
		return
	}
	ld := loader.New(h.searches)
	searches, err := ld.Load(r.Context(), ownerID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if searches == nil {
		searches = []*model.SavedSearch{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"searches": searches,
		"count":    len(searches),
	})
}

func (h *SearchHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	ownerID := h.requireOwner(w, r)
	if ownerID == "" {
		return
	}
	searchID := mux.Vars(r)["searchId"]
	out, err := h.svc.GetSearch(r.Context(), ownerID, searchID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *SearchHandler) UpdateSearch(w http.ResponseWriter, r *http.Request) {
	ownerID := h.requireOwner(w, r)
	if ownerID == "" {
		return
	}
	searchID := mux.Vars(r)["searchId"]
	var in struct {
		Name     *string `json:"name,omitempty"`
		Query    *string `json:"query,omitempty"`
		Position *int    `json:"position,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.UpdateSearch(in.Name, in.Query, in.Position); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.UpdateSearch(r.Context(), model.UpdateSearchRequest{
		OwnerID:  ownerID,
		SearchID: searchID,
		Name:     in.Name,
		Query:    in.Query,
		Position: in.Position,
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *SearchHandler) DeleteSearch(w http.ResponseWriter, r *http.Request) {
	ownerID := h.requireOwner(w, r)
	if ownerID == "" {
		return
	}
	searchID := mux.Vars(r)["searchId"]
	if err := h.svc.DeleteSearch(r.Context(), ownerID, searchID); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
