package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lexmanager/internal/financeiro"
	"lexmanager/internal/prazo"
	"lexmanager/internal/processo"
)

type Service struct {
	DB *gorm.DB
}

type Kpis struct {
	ProcessosAtivos    int64            `json:"processosAtivos"`
	PrazosProximos     int64            `json:"prazosProximos"`
	ReceitaMensal      string           `json:"receitaMensal"`
	Inadimplencia      string           `json:"inadimplencia"`
	ProcessosPorStatus map[string]int64 `json:"processosPorStatus"`
	ProximosPrazos     []prazo.Prazo    `json:"proximosPrazos"`
}

func (s *Service) Kpis(ctx context.Context, tenantID string) (Kpis, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0).Add(-time.Nanosecond)
	next7 := now.AddDate(0, 0, 7)

	out := Kpis{ProcessosPorStatus: map[string]int64{}, ReceitaMensal: "0", Inadimplencia: "0"}
	db := s.DB.WithContext(ctx)

	if err := db.Model(&processo.Processo{}).
		Where("tenant_id = ? AND status = ?", tenantID, processo.StatusAtivo).
		Count(&out.ProcessosAtivos).Error; err != nil {
		return Kpis{}, err
	}

	if err := db.Model(&prazo.Prazo{}).
		Where("tenant_id = ? AND status = ? AND data_vencimento BETWEEN ? AND ?",
			tenantID, prazo.StatusPendente, now, next7).
		Count(&out.PrazosProximos).Error; err != nil {
		return Kpis{}, err
	}

	var receita *string
	if err := db.Model(&financeiro.Lancamento{}).
		Select("sum(valor)").
		Where("tenant_id = ? AND tipo = ? AND status = ? AND data_pagamento BETWEEN ? AND ?",
			tenantID, financeiro.TipoReceita, financeiro.StatusPago, startOfMonth, endOfMonth).
		Scan(&receita).Error; err != nil {
		return Kpis{}, err
	}
	if receita != nil {
		out.ReceitaMensal = *receita
	}

	var inadimplencia *string
	if err := db.Model(&financeiro.Lancamento{}).
		Select("sum(valor)").
		Where("tenant_id = ? AND tipo = ? AND status = ? AND data_vencimento < ?",
			tenantID, financeiro.TipoReceita, financeiro.StatusPendente, now).
		Scan(&inadimplencia).Error; err != nil {
		return Kpis{}, err
	}
	if inadimplencia != nil {
		out.Inadimplencia = *inadimplencia
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := db.Model(&processo.Processo{}).
		Select("status, count(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return Kpis{}, err
	}
	for _, c := range counts {
		out.ProcessosPorStatus[c.Status] = c.Count
	}

	if err := db.Model(&prazo.Prazo{}).
		Preload("Responsavel").
		Preload("Processo").
		Where("tenant_id = ? AND status = ? AND data_vencimento >= ?",
			tenantID, prazo.StatusPendente, now).
		Order("data_vencimento asc").
		Limit(10).
		Find(&out.ProximosPrazos).Error; err != nil {
		return Kpis{}, err
	}

	return out, nil
}
