package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lexmanager/internal/auth"
	"lexmanager/internal/financeiro"
)

type FinanceiroHandler struct {
	Svc *financeiro.Service
}

type lancamentoDTO struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenantId"`
	Tipo           string          `json:"tipo"`
	Status         string          `json:"status"`
	Descricao      string          `json:"descricao"`
	Valor          string          `json:"valor"`
	DataVencimento time.Time       `json:"dataVencimento"`
	DataPagamento  *time.Time      `json:"dataPagamento"`
	Categoria      *string         `json:"categoria"`
	Observacoes    *string         `json:"observacoes"`
	Processo       *processoRefDTO `json:"processo,omitempty"`
	Cliente        map[string]any  `json:"cliente,omitempty"`
}

func toLancamentoDTO(l financeiro.Lancamento) lancamentoDTO {
	out := lancamentoDTO{
		ID:             l.ID,
		TenantID:       l.TenantID,
		Tipo:           l.Tipo,
		Status:         l.Status,
		Descricao:      l.Descricao,
		Valor:          l.Valor,
		DataVencimento: l.DataVencimento,
		DataPagamento:  l.DataPagamento,
		Categoria:      l.Categoria,
		Observacoes:    l.Observacoes,
	}
	if l.Processo != nil {
		out.Processo = &processoRefDTO{ID: l.Processo.ID, Titulo: l.Processo.Titulo, NumeroCnj: l.Processo.NumeroCnj}
	}
	if l.Cliente != nil {
		out.Cliente = map[string]any{"id": l.Cliente.ID, "nome": l.Cliente.Nome}
	}
	return out
}

func (h *FinanceiroHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	q := financeiro.ListQuery{
		Tipo:   r.URL.Query().Get("tipo"),
		Status: r.URL.Query().Get("status"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}
	rows, total, err := h.Svc.List(r.Context(), id.TenantID, q)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]lancamentoDTO, 0, len(rows))
	for _, l := range rows {
		out = append(out, toLancamentoDTO(l))
	}
	writeList(w, out, total, q.Page, q.Limit)
}

type createLancamentoReq struct {
	Tipo           string  `json:"tipo"`
	Descricao      string  `json:"descricao"`
	Valor          string  `json:"valor"`
	DataVencimento string  `json:"dataVencimento"`
	ProcessoID     *string `json:"processoId"`
	ClienteID      *string `json:"clienteId"`
	Categoria      *string `json:"categoria"`
	Observacoes    *string `json:"observacoes"`
}

func (h *FinanceiroHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createLancamentoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Descricao = strings.TrimSpace(req.Descricao)
	if req.Descricao == "" || req.Valor == "" || req.DataVencimento == "" {
		http.Error(w, "descricao, valor and dataVencimento required", http.StatusBadRequest)
		return
	}
	if req.Tipo != financeiro.TipoReceita && req.Tipo != financeiro.TipoDespesa {
		http.Error(w, "invalid tipo", http.StatusBadRequest)
		return
	}
	venc, err := parseDate(req.DataVencimento)
	if err != nil {
		http.Error(w, "invalid dataVencimento", http.StatusBadRequest)
		return
	}

	l, err := h.Svc.Create(r.Context(), id.TenantID, id.UserID, financeiro.CreateInput{
		Tipo:           req.Tipo,
		Descricao:      req.Descricao,
		Valor:          req.Valor,
		DataVencimento: venc,
		ProcessoID:     req.ProcessoID,
		ClienteID:      req.ClienteID,
		Categoria:      req.Categoria,
		Observacoes:    req.Observacoes,
	})
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toLancamentoDTO(l))
}

type updateLancamentoReq struct {
	Tipo           *string `json:"tipo"`
	Status         *string `json:"status"`
	Descricao      *string `json:"descricao"`
	Valor          *string `json:"valor"`
	DataVencimento *string `json:"dataVencimento"`
	Categoria      *string `json:"categoria"`
	Observacoes    *string `json:"observacoes"`
}

func (h *FinanceiroHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req updateLancamentoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	in := financeiro.UpdateInput{
		Tipo:        req.Tipo,
		Status:      req.Status,
		Descricao:   req.Descricao,
		Valor:       req.Valor,
		Categoria:   req.Categoria,
		Observacoes: req.Observacoes,
	}
	if req.DataVencimento != nil && *req.DataVencimento != "" {
		t, err := parseDate(*req.DataVencimento)
		if err != nil {
			http.Error(w, "invalid dataVencimento", http.StatusBadRequest)
			return
		}
		in.DataVencimento = &t
	}

	l, err := h.Svc.Update(r.Context(), id.TenantID, chi.URLParam(r, "id"), in)
	if err != nil {
		if errors.Is(err, financeiro.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toLancamentoDTO(l))
}

func (h *FinanceiroHandler) Pagar(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	l, err := h.Svc.Pagar(r.Context(), id.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, financeiro.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toLancamentoDTO(l))
}
