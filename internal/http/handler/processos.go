package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lexmanager/internal/auth"
	"lexmanager/internal/processo"
)

type ProcessosHandler struct {
	Svc *processo.Service
}

type processoRefDTO struct {
	ID        string  `json:"id"`
	Titulo    string  `json:"titulo"`
	NumeroCnj *string `json:"numeroCnj,omitempty"`
}

type responsavelDTO struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

type processoDTO struct {
	ID               string           `json:"id"`
	TenantID         string           `json:"tenantId"`
	Responsavel      responsavelDTO   `json:"responsavel"`
	NumeroCnj        *string          `json:"numeroCnj"`
	Titulo           string           `json:"titulo"`
	Descricao        *string          `json:"descricao"`
	Status           string           `json:"status"`
	Area             string           `json:"area"`
	Vara             *string          `json:"vara"`
	Tribunal         *string          `json:"tribunal"`
	Comarca          *string          `json:"comarca"`
	Instancia        *string          `json:"instancia"`
	ValorCausa       *string          `json:"valorCausa"`
	DataDistribuicao *time.Time       `json:"dataDistribuicao"`
	Clientes         []map[string]any `json:"clientes,omitempty"`
	Movimentacoes    []map[string]any `json:"movimentacoes,omitempty"`
}

func toProcessoDTO(p processo.Processo) processoDTO {
	out := processoDTO{
		ID:       p.ID,
		TenantID: p.TenantID,
		Responsavel: responsavelDTO{
			ID:    p.ResponsavelID,
			Nome:  p.Responsavel.Nome,
			Email: p.Responsavel.Email,
		},
		NumeroCnj:        p.NumeroCnj,
		Titulo:           p.Titulo,
		Descricao:        p.Descricao,
		Status:           p.Status,
		Area:             p.Area,
		Vara:             p.Vara,
		Tribunal:         p.Tribunal,
		Comarca:          p.Comarca,
		Instancia:        p.Instancia,
		ValorCausa:       p.ValorCausa,
		DataDistribuicao: p.DataDistribuicao,
	}
	for _, link := range p.Clientes {
		out.Clientes = append(out.Clientes, map[string]any{
			"id":    link.ClienteID,
			"nome":  link.Cliente.Nome,
			"tipo":  link.Cliente.Tipo,
			"papel": link.Papel,
		})
	}
	for _, m := range p.Movimentacoes {
		out.Movimentacoes = append(out.Movimentacoes, map[string]any{
			"id":               m.ID,
			"titulo":           m.Titulo,
			"descricao":        m.Descricao,
			"dataMovimentacao": m.DataMovimentacao,
		})
	}
	return out
}

func (h *ProcessosHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	q := processo.ListQuery{
		Search:        strings.TrimSpace(r.URL.Query().Get("search")),
		Status:        r.URL.Query().Get("status"),
		Area:          r.URL.Query().Get("area"),
		ResponsavelID: r.URL.Query().Get("responsavelId"),
		Page:          queryInt(r, "page", 1),
		Limit:         queryInt(r, "limit", 20),
	}
	rows, total, err := h.Svc.List(r.Context(), id.TenantID, q)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]processoDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, toProcessoDTO(p))
	}
	writeList(w, out, total, q.Page, q.Limit)
}

func (h *ProcessosHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	p, err := h.Svc.Get(r.Context(), id.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, processo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProcessoDTO(p))
}

type createProcessoReq struct {
	ResponsavelID    string  `json:"responsavelId"`
	NumeroCnj        *string `json:"numeroCnj"`
	Titulo           string  `json:"titulo"`
	Descricao        *string `json:"descricao"`
	Area             string  `json:"area"`
	Vara             *string `json:"vara"`
	Tribunal         *string `json:"tribunal"`
	Comarca          *string `json:"comarca"`
	Instancia        *string `json:"instancia"`
	ValorCausa       *string `json:"valorCausa"`
	DataDistribuicao *string `json:"dataDistribuicao"`
}

func (h *ProcessosHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req createProcessoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Titulo = strings.TrimSpace(req.Titulo)
	if req.Titulo == "" || req.Area == "" {
		http.Error(w, "titulo and area required", http.StatusBadRequest)
		return
	}

	var dist *time.Time
	if req.DataDistribuicao != nil && *req.DataDistribuicao != "" {
		t, err := parseDate(*req.DataDistribuicao)
		if err != nil {
			http.Error(w, "invalid dataDistribuicao", http.StatusBadRequest)
			return
		}
		dist = &t
	}

	p, err := h.Svc.Create(r.Context(), id.TenantID, id.UserID, processo.CreateInput{
		ResponsavelID:    req.ResponsavelID,
		NumeroCnj:        req.NumeroCnj,
		Titulo:           req.Titulo,
		Descricao:        req.Descricao,
		Area:             req.Area,
		Vara:             req.Vara,
		Tribunal:         req.Tribunal,
		Comarca:          req.Comarca,
		Instancia:        req.Instancia,
		ValorCausa:       req.ValorCausa,
		DataDistribuicao: dist,
	})
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toProcessoDTO(p))
}

type updateProcessoReq struct {
	ResponsavelID    *string `json:"responsavelId"`
	NumeroCnj        *string `json:"numeroCnj"`
	Titulo           *string `json:"titulo"`
	Descricao        *string `json:"descricao"`
	Status           *string `json:"status"`
	Area             *string `json:"area"`
	Vara             *string `json:"vara"`
	Tribunal         *string `json:"tribunal"`
	Comarca          *string `json:"comarca"`
	Instancia        *string `json:"instancia"`
	ValorCausa       *string `json:"valorCausa"`
	DataDistribuicao *string `json:"dataDistribuicao"`
}

func (h *ProcessosHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req updateProcessoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	in := processo.UpdateInput{
		ResponsavelID: req.ResponsavelID,
		NumeroCnj:     req.NumeroCnj,
		Titulo:        req.Titulo,
		Descricao:     req.Descricao,
		Status:        req.Status,
		Area:          req.Area,
		Vara:          req.Vara,
		Tribunal:      req.Tribunal,
		Comarca:       req.Comarca,
		Instancia:     req.Instancia,
		ValorCausa:    req.ValorCausa,
	}
	if req.DataDistribuicao != nil && *req.DataDistribuicao != "" {
		t, err := parseDate(*req.DataDistribuicao)
		if err != nil {
			http.Error(w, "invalid dataDistribuicao", http.StatusBadRequest)
			return
		}
		in.DataDistribuicao = &t
	}

	p, err := h.Svc.Update(r.Context(), id.TenantID, chi.URLParam(r, "id"), in)
	if err != nil {
		if errors.Is(err, processo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProcessoDTO(p))
}

func (h *ProcessosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.Delete(r.Context(), id.TenantID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, processo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type movimentacaoReq struct {
	Titulo           string  `json:"titulo"`
	Descricao        string  `json:"descricao"`
	DataMovimentacao *string `json:"dataMovimentacao"`
}

func (h *ProcessosHandler) AddMovimentacao(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req movimentacaoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Titulo) == "" {
		http.Error(w, "titulo required", http.StatusBadRequest)
		return
	}

	data := time.Now()
	if req.DataMovimentacao != nil && *req.DataMovimentacao != "" {
		t, err := parseDate(*req.DataMovimentacao)
		if err != nil {
			http.Error(w, "invalid dataMovimentacao", http.StatusBadRequest)
			return
		}
		data = t
	}

	m, err := h.Svc.AddMovimentacao(r.Context(), id.TenantID, chi.URLParam(r, "id"), req.Titulo, req.Descricao, data)
	if err != nil {
		if errors.Is(err, processo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":               m.ID,
		"titulo":           m.Titulo,
		"descricao":        m.Descricao,
		"dataMovimentacao": m.DataMovimentacao,
	})
}

type linkClienteReq struct {
	ClienteID string `json:"clienteId"`
	Papel     string `json:"papel"`
}

func (h *ProcessosHandler) AddCliente(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req linkClienteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClienteID == "" {
		http.Error(w, "clienteId required", http.StatusBadRequest)
		return
	}

	err := h.Svc.AddCliente(r.Context(), id.TenantID, chi.URLParam(r, "id"), req.ClienteID, req.Papel)
	if err != nil {
		if errors.Is(err, processo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProcessosHandler) RemoveCliente(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	err := h.Svc.RemoveCliente(r.Context(), id.TenantID, chi.URLParam(r, "id"), chi.URLParam(r, "clienteId"))
	if err != nil {
		if errors.Is(err, processo.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
