package financeiro

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("lancamento not found")

type Service struct {
	DB *gorm.DB
}

type ListQuery struct {
	Tipo   string
	Status string
	Page   int
	Limit  int
}

type CreateInput struct {
	Tipo           string
	Descricao      string
	Valor          string
	DataVencimento time.Time
	ProcessoID     *string
	ClienteID      *string
	Categoria      *string
	Observacoes    *string
}

type UpdateInput struct {
	Tipo           *string
	Status         *string
	Descricao      *string
	Valor          *string
	DataVencimento *time.Time
	Categoria      *string
	Observacoes    *string
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (s *Service) List(ctx context.Context, tenantID string, q ListQuery) ([]Lancamento, int64, error) {
	q.normalize()

	base := s.DB.WithContext(ctx).Model(&Lancamento{}).Where("tenant_id = ?", tenantID)
	if q.Tipo != "" {
		base = base.Where("tipo = ?", q.Tipo)
	}
	if q.Status != "" {
		base = base.Where("status = ?", q.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Lancamento
	err := base.
		Preload("Processo").
		Preload("Cliente").
		Preload("Criador").
		Order("data_vencimento desc").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (s *Service) Create(ctx context.Context, tenantID, criadorID string, in CreateInput) (Lancamento, error) {
	l := Lancamento{
		TenantID:       tenantID,
		CriadorID:      criadorID,
		ProcessoID:     in.ProcessoID,
		ClienteID:      in.ClienteID,
		Tipo:           in.Tipo,
		Descricao:      in.Descricao,
		Valor:          in.Valor,
		DataVencimento: in.DataVencimento,
		Categoria:      in.Categoria,
		Observacoes:    in.Observacoes,
	}
	if err := s.DB.WithContext(ctx).Create(&l).Error; err != nil {
		return Lancamento{}, err
	}
	return l, nil
}

func (s *Service) Update(ctx context.Context, tenantID, id string, in UpdateInput) (Lancamento, error) {
	l, err := s.get(ctx, tenantID, id)
	if err != nil {
		return Lancamento{}, err
	}

	patch := map[string]any{"updated_at": time.Now()}
	if in.Tipo != nil {
		patch["tipo"] = *in.Tipo
	}
	if in.Status != nil {
		patch["status"] = *in.Status
	}
	if in.Descricao != nil {
		patch["descricao"] = *in.Descricao
	}
	if in.Valor != nil {
		patch["valor"] = *in.Valor
	}
	if in.DataVencimento != nil {
		patch["data_vencimento"] = *in.DataVencimento
	}
	if in.Categoria != nil {
		patch["categoria"] = *in.Categoria
	}
	if in.Observacoes != nil {
		patch["observacoes"] = *in.Observacoes
	}

	if err := s.DB.WithContext(ctx).Model(&l).Updates(patch).Error; err != nil {
		return Lancamento{}, err
	}
	return l, nil
}

// Pagar settles a receivable/payable: status PAGO and payment date now.
func (s *Service) Pagar(ctx context.Context, tenantID, id string) (Lancamento, error) {
	l, err := s.get(ctx, tenantID, id)
	if err != nil {
		return Lancamento{}, err
	}
	err = s.DB.WithContext(ctx).Model(&l).Updates(map[string]any{
		"status":         StatusPago,
		"data_pagamento": time.Now(),
		"updated_at":     time.Now(),
	}).Error
	if err != nil {
		return Lancamento{}, err
	}
	return l, nil
}

func (s *Service) get(ctx context.Context, tenantID, id string) (Lancamento, error) {
	var l Lancamento
	err := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Lancamento{}, ErrNotFound
		}
		return Lancamento{}, err
	}
	return l, nil
}
