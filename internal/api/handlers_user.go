package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/searchrail/searchrail/internal/api/respond"
	"github.com/searchrail/searchrail/internal/api/validate"
	"github.com/searchrail/searchrail/internal/model"
	"github.com/searchrail/searchrail/internal/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID      string  `json:"userId"`
		Email       string  `json:"email"`
		DisplayName *string `json:"displayName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.CreateUser(in.UserID, in.Email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	u := &model.User{UserID: in.UserID, Email: in.Email, DisplayName: in.DisplayName}
	out, err := h.svc.CreateUser(r.Context(), u)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respond.WriteBadRequest(w, "userId required")
		return
	}
	u, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}
