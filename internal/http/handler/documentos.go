package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"lexmanager/internal/auth"
	"lexmanager/internal/documento"
)

// maxUploadBytes caps a single document at 25 MB.
const maxUploadBytes = 25 << 20

type DocumentosHandler struct {
	Svc *documento.Service
}

type documentoDTO struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenantId"`
	Nome         string          `json:"nome"`
	NomeOriginal string          `json:"nomeOriginal"`
	MimeType     string          `json:"mimeType"`
	Tamanho      int64           `json:"tamanho"`
	CreatedAt    time.Time       `json:"createdAt"`
	Uploader     *responsavelDTO `json:"uploader,omitempty"`
	Processo     *processoRefDTO `json:"processo,omitempty"`
}

func toDocumentoDTO(d documento.Documento) documentoDTO {
	out := documentoDTO{
		ID:           d.ID,
		TenantID:     d.TenantID,
		Nome:         d.Nome,
		NomeOriginal: d.NomeOriginal,
		MimeType:     d.MimeType,
		Tamanho:      d.Tamanho,
		CreatedAt:    d.CreatedAt,
	}
	if d.Uploader.ID != "" {
		out.Uploader = &responsavelDTO{ID: d.Uploader.ID, Nome: d.Uploader.Nome, Email: d.Uploader.Email}
	}
	if d.Processo != nil {
		out.Processo = &processoRefDTO{ID: d.Processo.ID, Titulo: d.Processo.Titulo, NumeroCnj: d.Processo.NumeroCnj}
	}
	return out
}

func (h *DocumentosHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var processoID *string
	if v := r.URL.Query().Get("processoId"); v != "" {
		processoID = &v
	}

	rows, err := h.Svc.List(r.Context(), id.TenantID, processoID)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]documentoDTO, 0, len(rows))
	for _, d := range rows {
		out = append(out, toDocumentoDTO(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DocumentosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var processoID *string
	if v := r.FormValue("processoId"); v != "" {
		processoID = &v
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc, err := h.Svc.Upload(r.Context(), id.TenantID, id.UserID, processoID, header.Filename, mimeType, file)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentoDTO(doc))
}

func (h *DocumentosHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	doc, f, err := h.Svc.Open(r.Context(), id.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, documento.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Tamanho, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.NomeOriginal))
	http.ServeContent(w, r, doc.NomeOriginal, doc.CreatedAt, f)
}

func (h *DocumentosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.Remove(r.Context(), id.TenantID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, documento.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
