package processo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("processo not found")

type Service struct {
	DB *gorm.DB
}

type ListQuery struct {
	Search        string
	Status        string
	Area          string
	ResponsavelID string
	Page          int
	Limit         int
}

type CreateInput struct {
	ResponsavelID    string
	NumeroCnj        *string
	Titulo           string
	Descricao        *string
	Area             string
	Vara             *string
	Tribunal         *string
	Comarca          *string
	Instancia        *string
	ValorCausa       *string
	DataDistribuicao *time.Time
}

type UpdateInput struct {
	ResponsavelID    *string
	NumeroCnj        *string
	Titulo           *string
	Descricao        *string
	Status           *string
	Area             *string
	Vara             *string
	Tribunal         *string
	Comarca          *string
	Instancia        *string
	ValorCausa       *string
	DataDistribuicao *time.Time
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (s *Service) List(ctx context.Context, tenantID string, q ListQuery) ([]Processo, int64, error) {
	q.normalize()

	base := s.DB.WithContext(ctx).Model(&Processo{}).Where("tenant_id = ?", tenantID)
	if q.Status != "" {
		base = base.Where("status = ?", q.Status)
	}
	if q.Area != "" {
		base = base.Where("area = ?", q.Area)
	}
	if q.ResponsavelID != "" {
		base = base.Where("responsavel_id = ?", q.ResponsavelID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where("titulo ILIKE ? OR numero_cnj LIKE ? OR comarca ILIKE ?", like, like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Processo
	err := base.
		Preload("Responsavel").
		Preload("Clientes.Cliente").
		Order("updated_at desc").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Processo, error) {
	var p Processo
	err := s.DB.WithContext(ctx).
		Preload("Responsavel").
		Preload("Clientes.Cliente").
		Preload("Movimentacoes", func(db *gorm.DB) *gorm.DB {
			return db.Order("data_movimentacao desc")
		}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Processo{}, ErrNotFound
		}
		return Processo{}, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, tenantID, userID string, in CreateInput) (Processo, error) {
	if in.ResponsavelID == "" {
		in.ResponsavelID = userID
	}
	p := Processo{
		TenantID:         tenantID,
		ResponsavelID:    in.ResponsavelID,
		NumeroCnj:        in.NumeroCnj,
		Titulo:           in.Titulo,
		Descricao:        in.Descricao,
		Area:             in.Area,
		Vara:             in.Vara,
		Tribunal:         in.Tribunal,
		Comarca:          in.Comarca,
		Instancia:        in.Instancia,
		ValorCausa:       in.ValorCausa,
		DataDistribuicao: in.DataDistribuicao,
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return Processo{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, tenantID, id string, in UpdateInput) (Processo, error) {
	var p Processo
	err := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Processo{}, ErrNotFound
		}
		return Processo{}, err
	}

	patch := map[string]any{"updated_at": time.Now()}
	if in.ResponsavelID != nil {
		patch["responsavel_id"] = *in.ResponsavelID
	}
	if in.NumeroCnj != nil {
		patch["numero_cnj"] = *in.NumeroCnj
	}
	if in.Titulo != nil {
		patch["titulo"] = *in.Titulo
	}
	if in.Descricao != nil {
		patch["descricao"] = *in.Descricao
	}
	if in.Status != nil {
		patch["status"] = *in.Status
	}
	if in.Area != nil {
		patch["area"] = *in.Area
	}
	if in.Vara != nil {
		patch["vara"] = *in.Vara
	}
	if in.Tribunal != nil {
		patch["tribunal"] = *in.Tribunal
	}
	if in.Comarca != nil {
		patch["comarca"] = *in.Comarca
	}
	if in.Instancia != nil {
		patch["instancia"] = *in.Instancia
	}
	if in.ValorCausa != nil {
		patch["valor_causa"] = *in.ValorCausa
	}
	if in.DataDistribuicao != nil {
		patch["data_distribuicao"] = *in.DataDistribuicao
	}

	if err := s.DB.WithContext(ctx).Model(&p).Updates(patch).Error; err != nil {
		return Processo{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&Processo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) AddMovimentacao(ctx context.Context, tenantID, processoID string, titulo, descricao string, data time.Time) (Movimentacao, error) {
	if err := s.ensureOwned(ctx, tenantID, processoID); err != nil {
		return Movimentacao{}, err
	}
	m := Movimentacao{
		ProcessoID:       processoID,
		Titulo:           titulo,
		Descricao:        descricao,
		DataMovimentacao: data,
	}
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return Movimentacao{}, err
	}
	return m, nil
}

func (s *Service) AddCliente(ctx context.Context, tenantID, processoID, clienteID, papel string) error {
	if err := s.ensureOwned(ctx, tenantID, processoID); err != nil {
		return err
	}
	if papel == "" {
		papel = "AUTOR"
	}
	link := ProcessoCliente{ProcessoID: processoID, ClienteID: clienteID, Papel: papel}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (s *Service) RemoveCliente(ctx context.Context, tenantID, processoID, clienteID string) error {
	if err := s.ensureOwned(ctx, tenantID, processoID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).
		Where("processo_id = ? AND cliente_id = ?", processoID, clienteID).
		Delete(&ProcessoCliente{}).Error
}

func (s *Service) ensureOwned(ctx context.Context, tenantID, processoID string) error {
	var count int64
	err := s.DB.WithContext(ctx).Model(&Processo{}).
		Where("id = ? AND tenant_id = ?", processoID, tenantID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
