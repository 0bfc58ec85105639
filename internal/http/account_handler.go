package http

import (
	"encoding/json"
	"net/http"

	"github.com/Drij77/ecommerce-graphql-api/internal/service"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	payload, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		respondError(r, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponse{
		Token: payload.Token,
		User:  mapUser(payload.User),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	payload, err := h.accounts.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Token: payload.Token,
		User:  mapUser(payload.User),
	})
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Me(CallerFromContext(r.Context()))
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapUser(user))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = mapUser(u)
	}
	respondJSON(w, http.StatusOK, out)
}
