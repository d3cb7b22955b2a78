package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"lexmanager/internal/auth"
)

type UsersHandler struct {
	Svc *auth.Service
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	users, err := h.Svc.ListUsers(r.Context(), id.TenantID)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, out)
}

type createUserReq struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
	Role  string `json:"role"`
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Nome == "" || req.Email == "" || len(req.Senha) < 8 {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	switch req.Role {
	case auth.RoleSocio, auth.RoleAdvogado, auth.RoleAssistente:
	case "":
		req.Role = auth.RoleAdvogado
	default:
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	user, err := h.Svc.CreateUser(r.Context(), id.TenantID, auth.CreateUserInput{
		Nome:  req.Nome,
		Email: req.Email,
		Senha: req.Senha,
		Role:  req.Role,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

type updateUserReq struct {
	Nome  *string `json:"nome"`
	Senha *string `json:"senha"`
	Role  *string `json:"role"`
	Ativo *bool   `json:"ativo"`
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	user, err := h.Svc.UpdateUser(r.Context(), id.TenantID, chi.URLParam(r, "id"), auth.UpdateUserInput{
		Nome:  req.Nome,
		Senha: req.Senha,
		Role:  req.Role,
		Ativo: req.Ativo,
	})
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *UsersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.DeactivateUser(r.Context(), id.TenantID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
