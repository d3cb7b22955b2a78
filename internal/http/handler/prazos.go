package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lexmanager/internal/auth"
	"lexmanager/internal/prazo"
)

type PrazosHandler struct {
	Svc *prazo.Service
}

type notificacaoDTO struct {
	ID        string     `json:"id"`
	DiasAntes int        `json:"diasAntes"`
	Canal     string     `json:"canal"`
	Status    string     `json:"status"`
	EnviadoEm *time.Time `json:"enviadoEm"`
	Erro      *string    `json:"erro"`
}

type prazoDTO struct {
	ID             string           `json:"id"`
	TenantID       string           `json:"tenantId"`
	Processo       *processoRefDTO  `json:"processo,omitempty"`
	Responsavel    responsavelDTO   `json:"responsavel"`
	Titulo         string           `json:"titulo"`
	Descricao      *string          `json:"descricao"`
	Tipo           string           `json:"tipo"`
	Status         string           `json:"status"`
	DataVencimento time.Time        `json:"dataVencimento"`
	DataConclusao  *time.Time       `json:"dataConclusao"`
	Alertas        []int64          `json:"alertas"`
	Notificacoes   []notificacaoDTO `json:"notificacoes,omitempty"`
}

func toPrazoDTO(p prazo.Prazo) prazoDTO {
	out := prazoDTO{
		ID:       p.ID,
		TenantID: p.TenantID,
		Responsavel: responsavelDTO{
			ID:    p.ResponsavelID,
			Nome:  p.Responsavel.Nome,
			Email: p.Responsavel.Email,
		},
		Titulo:         p.Titulo,
		Descricao:      p.Descricao,
		Tipo:           p.Tipo,
		Status:         p.Status,
		DataVencimento: p.DataVencimento,
		DataConclusao:  p.DataConclusao,
		Alertas:        []int64(p.Alertas),
	}
	if p.Processo != nil {
		out.Processo = &processoRefDTO{
			ID:        p.Processo.ID,
			Titulo:    p.Processo.Titulo,
			NumeroCnj: p.Processo.NumeroCnj,
		}
	}
	for _, n := range p.Notificacoes {
		out.Notificacoes = append(out.Notificacoes, notificacaoDTO{
			ID:        n.ID,
			DiasAntes: n.DiasAntes,
			Canal:     n.Canal,
			Status:    n.Status,
			EnviadoEm: n.EnviadoEm,
			Erro:      n.Erro,
		})
	}
	return out
}

func (h *PrazosHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	q := prazo.ListQuery{
		Status:        r.URL.Query().Get("status"),
		ResponsavelID: r.URL.Query().Get("responsavelId"),
		Page:          queryInt(r, "page", 1),
		Limit:         queryInt(r, "limit", 20),
	}
	rows, total, err := h.Svc.List(r.Context(), id.TenantID, q)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]prazoDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, toPrazoDTO(p))
	}
	writeList(w, out, total, q.Page, q.Limit)
}

func (h *PrazosHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	p, err := h.Svc.Get(r.Context(), id.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, prazo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toPrazoDTO(p))
}

type createPrazoReq struct {
	Titulo         string  `json:"titulo"`
	Tipo           string  `json:"tipo"`
	DataVencimento string  `json:"dataVencimento"`
	Descricao      *string `json:"descricao"`
	ProcessoID     *string `json:"processoId"`
	ResponsavelID  string  `json:"responsavelId"`
	Alertas        []int64 `json:"alertas"`
}

func (h *PrazosHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createPrazoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Titulo = strings.TrimSpace(req.Titulo)
	if req.Titulo == "" || req.Tipo == "" || req.DataVencimento == "" {
		http.Error(w, "titulo, tipo and dataVencimento required", http.StatusBadRequest)
		return
	}
	venc, err := parseDate(req.DataVencimento)
	if err != nil {
		http.Error(w, "invalid dataVencimento", http.StatusBadRequest)
		return
	}

	p, err := h.Svc.Create(r.Context(), id.TenantID, id.UserID, prazo.CreateInput{
		ProcessoID:     req.ProcessoID,
		ResponsavelID:  req.ResponsavelID,
		Titulo:         req.Titulo,
		Descricao:      req.Descricao,
		Tipo:           req.Tipo,
		DataVencimento: venc,
		Alertas:        req.Alertas,
	})
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toPrazoDTO(p))
}

type updatePrazoReq struct {
	Titulo         *string `json:"titulo"`
	Descricao      *string `json:"descricao"`
	Tipo           *string `json:"tipo"`
	Status         *string `json:"status"`
	DataVencimento *string `json:"dataVencimento"`
	DataConclusao  *string `json:"dataConclusao"`
	Alertas        []int64 `json:"alertas"`
}

func (h *PrazosHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req updatePrazoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	in := prazo.UpdateInput{
		Titulo:    req.Titulo,
		Descricao: req.Descricao,
		Tipo:      req.Tipo,
		Status:    req.Status,
		Alertas:   req.Alertas,
	}
	if req.DataVencimento != nil && *req.DataVencimento != "" {
		t, err := parseDate(*req.DataVencimento)
		if err != nil {
			http.Error(w, "invalid dataVencimento", http.StatusBadRequest)
			return
		}
		in.DataVencimento = &t
	}
	if req.DataConclusao != nil && *req.DataConclusao != "" {
		t, err := parseDate(*req.DataConclusao)
		if err != nil {
			http.Error(w, "invalid dataConclusao", http.StatusBadRequest)
			return
		}
		in.DataConclusao = &t
	}

	p, err := h.Svc.Update(r.Context(), id.TenantID, chi.URLParam(r, "id"), in)
	if err != nil {
		if errors.Is(err, prazo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toPrazoDTO(p))
}

func (h *PrazosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.Delete(r.Context(), id.TenantID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, prazo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
