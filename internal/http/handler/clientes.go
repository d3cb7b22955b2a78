package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"lexmanager/internal/auth"
	"lexmanager/internal/cliente"
)

type ClientesHandler struct {
	Svc *cliente.Service
}

type clienteDTO struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenantId"`
	Tipo        string          `json:"tipo"`
	Status      string          `json:"status"`
	Nome        string          `json:"nome"`
	CpfCnpj     *string         `json:"cpfCnpj"`
	Email       *string         `json:"email"`
	Telefone    *string         `json:"telefone"`
	Celular     *string         `json:"celular"`
	Endereco    json.RawMessage `json:"endereco,omitempty"`
	Observacoes *string         `json:"observacoes"`
}

func toClienteDTO(c cliente.Cliente) clienteDTO {
	return clienteDTO{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Tipo:        c.Tipo,
		Status:      c.Status,
		Nome:        c.Nome,
		CpfCnpj:     c.CpfCnpj,
		Email:       c.Email,
		Telefone:    c.Telefone,
		Celular:     c.Celular,
		Endereco:    c.Endereco,
		Observacoes: c.Observacoes,
	}
}

func (h *ClientesHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	q := cliente.ListQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}
	rows, total, err := h.Svc.List(r.Context(), id.TenantID, q)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]clienteDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, toClienteDTO(c))
	}
	writeList(w, out, total, q.Page, q.Limit)
}

func (h *ClientesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	c, err := h.Svc.Get(r.Context(), id.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, cliente.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toClienteDTO(c))
}

type createClienteReq struct {
	Tipo        string          `json:"tipo"`
	Nome        string          `json:"nome"`
	CpfCnpj     *string         `json:"cpfCnpj"`
	Email       *string         `json:"email"`
	Telefone    *string         `json:"telefone"`
	Celular     *string         `json:"celular"`
	Endereco    json.RawMessage `json:"endereco"`
	Observacoes *string         `json:"observacoes"`
}

func (h *ClientesHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createClienteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Nome = strings.TrimSpace(req.Nome)
	if req.Nome == "" {
		http.Error(w, "nome required", http.StatusBadRequest)
		return
	}

	c, err := h.Svc.Create(r.Context(), id.TenantID, cliente.CreateInput{
		Tipo:        req.Tipo,
		Nome:        req.Nome,
		CpfCnpj:     req.CpfCnpj,
		Email:       req.Email,
		Telefone:    req.Telefone,
		Celular:     req.Celular,
		Endereco:    req.Endereco,
		Observacoes: req.Observacoes,
	})
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toClienteDTO(c))
}

type updateClienteReq struct {
	Tipo        *string         `json:"tipo"`
	Status      *string         `json:"status"`
	Nome        *string         `json:"nome"`
	CpfCnpj     *string         `json:"cpfCnpj"`
	Email       *string         `json:"email"`
	Telefone    *string         `json:"telefone"`
	Celular     *string         `json:"celular"`
	Endereco    json.RawMessage `json:"endereco"`
	Observacoes *string         `json:"observacoes"`
}

func (h *ClientesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req updateClienteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	c, err := h.Svc.Update(r.Context(), id.TenantID, chi.URLParam(r, "id"), cliente.UpdateInput{
		Tipo:        req.Tipo,
		Status:      req.Status,
		Nome:        req.Nome,
		CpfCnpj:     req.CpfCnpj,
		Email:       req.Email,
		Telefone:    req.Telefone,
		Celular:     req.Celular,
		Endereco:    req.Endereco,
		Observacoes: req.Observacoes,
	})
	if err != nil {
		if errors.Is(err, cliente.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toClienteDTO(c))
}

func (h *ClientesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.Delete(r.Context(), id.TenantID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, cliente.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
