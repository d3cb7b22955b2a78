package cliente

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TipoFisica   = "FISICA"
	TipoJuridica = "JURIDICA"
)

const (
	StatusAtivo   = "ATIVO"
	StatusInativo = "INATIVO"
)

type Cliente struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	TenantID    string  `gorm:"type:uuid;index;not null"`
	Tipo        string  `gorm:"not null;default:'FISICA'"`
	Status      string  `gorm:"not null;default:'ATIVO'"`
	Nome        string  `gorm:"index;not null"`
	CpfCnpj     *string
	Email       *string
	Telefone    *string
	Celular     *string
	Endereco    json.RawMessage `gorm:"type:jsonb"`
	Observacoes *string         `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"not null;default:now()"`
	UpdatedAt   time.Time       `gorm:"not null;default:now()"`
}

func (c *Cliente) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
