package processo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lexmanager/internal/auth"
	"lexmanager/internal/cliente"
)

const (
	StatusAtivo     = "ATIVO"
	StatusSuspenso  = "SUSPENSO"
	StatusArquivado = "ARQUIVADO"
	StatusEncerrado = "ENCERRADO"
)

type Processo struct {
	ID               string  `gorm:"type:uuid;primaryKey"`
	TenantID         string  `gorm:"type:uuid;index;not null"`
	ResponsavelID    string  `gorm:"type:uuid;index;not null"`
	NumeroCnj        *string `gorm:"index"`
	Titulo           string  `gorm:"not null"`
	Descricao        *string `gorm:"type:text"`
	Status           string  `gorm:"index;not null;default:'ATIVO'"`
	Area             string  `gorm:"not null"`
	Vara             *string
	Tribunal         *string
	Comarca          *string
	Instancia        *string
	ValorCausa       *string
	DataDistribuicao *time.Time
	CreatedAt        time.Time `gorm:"not null;default:now()"`
	UpdatedAt        time.Time `gorm:"index;not null;default:now()"`

	Responsavel   auth.User         `gorm:"foreignKey:ResponsavelID"`
	Clientes      []ProcessoCliente `gorm:"foreignKey:ProcessoID"`
	Movimentacoes []Movimentacao    `gorm:"foreignKey:ProcessoID"`
}

// Movimentacao is one docket entry on a case timeline.
type Movimentacao struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	ProcessoID       string    `gorm:"type:uuid;index;not null"`
	Titulo           string    `gorm:"not null"`
	Descricao        string    `gorm:"type:text;not null"`
	DataMovimentacao time.Time `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null;default:now()"`
}

type ProcessoCliente struct {
	ProcessoID string `gorm:"type:uuid;primaryKey"`
	ClienteID  string `gorm:"type:uuid;primaryKey"`
	Papel      string `gorm:"not null;default:'AUTOR'"`

	Cliente cliente.Cliente `gorm:"foreignKey:ClienteID"`
}

func (Movimentacao) TableName() string { return "movimentacoes" }

func (p *Processo) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (m *Movimentacao) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
