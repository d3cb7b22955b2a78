package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleSocio      = "SOCIO"
	RoleAdvogado   = "ADVOGADO"
	RoleAssistente = "ASSISTENTE"
)

type Tenant struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Nome      string `gorm:"not null"`
	Cnpj      *string
	Email     string `gorm:"uniqueIndex;not null"`
	Telefone  *string
	Plano     string    `gorm:"not null;default:'basico'"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	TenantID     string    `gorm:"type:uuid;index;not null"`
	Nome         string    `gorm:"not null"`
	Email        string    `gorm:"index;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:'ADVOGADO'"`
	Ativo        bool      `gorm:"not null;default:true"`
	TotpEnabled  bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null;default:now()"`

	Tenant Tenant `gorm:"foreignKey:TenantID"`
}

type RefreshToken struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	TokenHash string    `gorm:"uniqueIndex;not null"`
	Revogado  bool      `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null"`
	IPAddress *string
	UserAgent *string
	CreatedAt time.Time `gorm:"not null;default:now()"`

	User User `gorm:"foreignKey:UserID"`
}

func (t *Tenant) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (r *RefreshToken) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
