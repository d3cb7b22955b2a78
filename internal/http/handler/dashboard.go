package handler

import (
	"net/http"

	"lexmanager/internal/auth"
	"lexmanager/internal/dashboard"
)

type DashboardHandler struct {
	Svc *dashboard.Service
}

type kpisDTO struct {
	ProcessosAtivos    int64            `json:"processosAtivos"`
	PrazosProximos     int64            `json:"prazosProximos"`
	ReceitaMensal      string           `json:"receitaMensal"`
	Inadimplencia      string           `json:"inadimplencia"`
	ProcessosPorStatus map[string]int64 `json:"processosPorStatus"`
	ProximosPrazos     []prazoDTO       `json:"proximosPrazos"`
}

func (h *DashboardHandler) Kpis(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	k, err := h.Svc.Kpis(r.Context(), id.TenantID)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := kpisDTO{
		ProcessosAtivos:    k.ProcessosAtivos,
		PrazosProximos:     k.PrazosProximos,
		ReceitaMensal:      k.ReceitaMensal,
		Inadimplencia:      k.Inadimplencia,
		ProcessosPorStatus: k.ProcessosPorStatus,
		ProximosPrazos:     make([]prazoDTO, 0, len(k.ProximosPrazos)),
	}
	for _, p := range k.ProximosPrazos {
		out.ProximosPrazos = append(out.ProximosPrazos, toPrazoDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}
