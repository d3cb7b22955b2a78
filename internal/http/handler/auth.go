package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lexmanager/internal/auth"
)

type AuthHandler struct {
	Svc *auth.Service
}

type userDTO struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Ativo     bool   `json:"ativo"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u auth.User) userDTO {
	return userDTO{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Nome:      u.Nome,
		Email:     u.Email,
		Role:      u.Role,
		Ativo:     u.Ativo,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type registerReq struct {
	NomeTenant   string  `json:"nomeTenant"`
	EmailTenant  string  `json:"emailTenant"`
	Cnpj         *string `json:"cnpj"`
	NomeUsuario  string  `json:"nomeUsuario"`
	EmailUsuario string  `json:"emailUsuario"`
	Senha        string  `json:"senha"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.EmailTenant = strings.TrimSpace(strings.ToLower(req.EmailTenant))
	req.EmailUsuario = strings.TrimSpace(strings.ToLower(req.EmailUsuario))
	if req.NomeTenant == "" || req.EmailTenant == "" || req.NomeUsuario == "" ||
		req.EmailUsuario == "" || len(req.Senha) < 8 {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	tokens, err := h.Svc.RegisterTenant(r.Context(), auth.RegisterTenantInput{
		NomeTenant:   req.NomeTenant,
		EmailTenant:  req.EmailTenant,
		Cnpj:         req.Cnpj,
		NomeUsuario:  req.NomeUsuario,
		EmailUsuario: req.EmailUsuario,
		Senha:        req.Senha,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeTokens(w, http.StatusCreated, tokens)
}

type loginReq struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Senha == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	ip := r.RemoteAddr
	ua := r.UserAgent()
	tokens, err := h.Svc.Login(r.Context(), req.Email, req.Senha, &ip, &ua)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeTokens(w, http.StatusOK, tokens)
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	tokens, err := h.Svc.Refresh(r.Context(), strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefresh) {
			http.Error(w, "invalid refresh token", http.StatusForbidden)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeTokens(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	if err := h.Svc.Logout(r.Context(), id.UserID); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	user, err := h.Svc.Me(r.Context(), id.UserID)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func writeTokens(w http.ResponseWriter, status int, t auth.Tokens) {
	writeJSON(w, status, map[string]any{
		"accessToken":  t.AccessToken,
		"refreshToken": t.RefreshToken,
		"user":         toUserDTO(t.User),
	})
}
