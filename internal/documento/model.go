package documento

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lexmanager/internal/auth"
	"lexmanager/internal/processo"
)

type Documento struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	TenantID     string    `gorm:"type:uuid;index;not null"`
	ProcessoID   *string   `gorm:"type:uuid;index"`
	UploaderID   string    `gorm:"type:uuid;not null"`
	Nome         string    `gorm:"not null"`
	NomeOriginal string    `gorm:"not null"`
	MimeType     string    `gorm:"not null"`
	Tamanho      int64     `gorm:"not null"`
	Caminho      string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;default:now()"`

	Uploader auth.User          `gorm:"foreignKey:UploaderID"`
	Processo *processo.Processo `gorm:"foreignKey:ProcessoID"`
}

func (d *Documento) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
