package prazo

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"lexmanager/internal/auth"
	"lexmanager/internal/processo"
)

const (
	StatusPendente  = "PENDENTE"
	StatusConcluido = "CONCLUIDO"
	StatusPerdido   = "PERDIDO"
)

const (
	TipoOrdinario = "ORDINARIO"
	TipoFatal     = "FATAL"
	TipoAudiencia = "AUDIENCIA"
	TipoPericia   = "PERICIA"
	TipoReuniao   = "REUNIAO"
	TipoTarefa    = "TAREFA"
)

const (
	NotifPendente = "PENDENTE"
	NotifEnviado  = "ENVIADO"
	NotifFalhou   = "FALHOU"
)

// DefaultAlertas is the process-wide lead-time list, in days before the due
// date. The scheduler scans exactly these values.
var DefaultAlertas = []int64{1, 3, 7, 15}

type Prazo struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	TenantID       string    `gorm:"type:uuid;index;not null"`
	ProcessoID     *string   `gorm:"type:uuid;index"`
	ResponsavelID  string    `gorm:"type:uuid;index;not null"`
	Titulo         string    `gorm:"not null"`
	Descricao      *string   `gorm:"type:text"`
	Tipo           string    `gorm:"not null"`
	Status         string    `gorm:"index;not null;default:'PENDENTE'"`
	DataVencimento time.Time `gorm:"index;not null"`
	DataConclusao  *time.Time
	Alertas        pq.Int64Array `gorm:"type:integer[];not null;default:'{1,3,7,15}'"`
	CreatedAt      time.Time     `gorm:"not null;default:now()"`
	UpdatedAt      time.Time     `gorm:"not null;default:now()"`

	Responsavel  auth.User          `gorm:"foreignKey:ResponsavelID"`
	Processo     *processo.Processo `gorm:"foreignKey:ProcessoID"`
	Notificacoes []PrazoNotificacao `gorm:"foreignKey:PrazoID"`
}

// PrazoNotificacao is one scheduled alert for a (prazo, lead-time) pair.
// Rows that left PENDENTE are an audit trail and are never rewritten back.
type PrazoNotificacao struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	PrazoID   string `gorm:"type:uuid;index;not null"`
	DiasAntes int    `gorm:"not null"`
	Canal     string `gorm:"not null;default:'email'"`
	Status    string `gorm:"index;not null;default:'PENDENTE'"`
	EnviadoEm *time.Time
	Erro      *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (PrazoNotificacao) TableName() string { return "prazo_notificacoes" }

func (p *Prazo) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (n *PrazoNotificacao) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
