package financeiro

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lexmanager/internal/auth"
	"lexmanager/internal/cliente"
	"lexmanager/internal/processo"
)

const (
	TipoReceita = "RECEITA"
	TipoDespesa = "DESPESA"
)

const (
	StatusPendente  = "PENDENTE"
	StatusPago      = "PAGO"
	StatusCancelado = "CANCELADO"
)

type Lancamento struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	TenantID       string    `gorm:"type:uuid;index;not null"`
	CriadorID      string    `gorm:"type:uuid;not null"`
	ProcessoID     *string   `gorm:"type:uuid;index"`
	ClienteID      *string   `gorm:"type:uuid;index"`
	Tipo           string    `gorm:"not null"`
	Status         string    `gorm:"index;not null;default:'PENDENTE'"`
	Descricao      string    `gorm:"not null"`
	Valor          string    `gorm:"type:numeric(14,2);not null"`
	DataVencimento time.Time `gorm:"index;not null"`
	DataPagamento  *time.Time
	Categoria      *string
	Observacoes    *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null;default:now()"`
	UpdatedAt      time.Time `gorm:"not null;default:now()"`

	Criador  auth.User          `gorm:"foreignKey:CriadorID"`
	Processo *processo.Processo `gorm:"foreignKey:ProcessoID"`
	Cliente  *cliente.Cliente   `gorm:"foreignKey:ClienteID"`
}

func (Lancamento) TableName() string { return "lancamentos" }

func (l *Lancamento) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
