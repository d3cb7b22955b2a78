package cliente

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("cliente not found")

type Service struct {
	DB *gorm.DB
}

type ListQuery struct {
	Search string
	Page   int
	Limit  int
}

type CreateInput struct {
	Tipo        string
	Nome        string
	CpfCnpj     *string
	Email       *string
	Telefone    *string
	Celular     *string
	Endereco    json.RawMessage
	Observacoes *string
}

type UpdateInput struct {
	Tipo        *string
	Status      *string
	Nome        *string
	CpfCnpj     *string
	Email       *string
	Telefone    *string
	Celular     *string
	Endereco    json.RawMessage
	Observacoes *string
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (s *Service) List(ctx context.Context, tenantID string, q ListQuery) ([]Cliente, int64, error) {
	q.normalize()

	base := s.DB.WithContext(ctx).Model(&Cliente{}).Where("tenant_id = ?", tenantID)
	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where("nome ILIKE ? OR cpf_cnpj LIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Cliente
	err := base.Order("nome asc").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Cliente, error) {
	var c Cliente
	err := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Cliente{}, ErrNotFound
		}
		return Cliente{}, err
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, tenantID string, in CreateInput) (Cliente, error) {
	c := Cliente{
		TenantID:    tenantID,
		Tipo:        in.Tipo,
		Nome:        in.Nome,
		CpfCnpj:     in.CpfCnpj,
		Email:       in.Email,
		Telefone:    in.Telefone,
		Celular:     in.Celular,
		Endereco:    in.Endereco,
		Observacoes: in.Observacoes,
	}
	if c.Tipo == "" {
		c.Tipo = TipoFisica
	}
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return Cliente{}, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, tenantID, id string, in UpdateInput) (Cliente, error) {
	c, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return Cliente{}, err
	}

	patch := map[string]any{}
	if in.Tipo != nil {
		patch["tipo"] = *in.Tipo
	}
	if in.Status != nil {
		patch["status"] = *in.Status
	}
	if in.Nome != nil {
		patch["nome"] = *in.Nome
	}
	if in.CpfCnpj != nil {
		patch["cpf_cnpj"] = *in.CpfCnpj
	}
	if in.Email != nil {
		patch["email"] = *in.Email
	}
	if in.Telefone != nil {
		patch["telefone"] = *in.Telefone
	}
	if in.Celular != nil {
		patch["celular"] = *in.Celular
	}
	if in.Endereco != nil {
		patch["endereco"] = in.Endereco
	}
	if in.Observacoes != nil {
		patch["observacoes"] = *in.Observacoes
	}
	if len(patch) == 0 {
		return c, nil
	}

	if err := s.DB.WithContext(ctx).Model(&c).Updates(patch).Error; err != nil {
		return Cliente{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&Cliente{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
