package jobs

import "time"

const TypePrazoAlert = "PRAZO_ALERT"

const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

// DefaultMaxAttempts and the 5s exponential base give retry delays of
// roughly 5s then 10s before the task is abandoned.
const DefaultMaxAttempts = 3

type Job struct {
	ID uint64 `gorm:"primaryKey"`

	Type    string `gorm:"type:text;not null"`
	Payload []byte `gorm:"type:jsonb;not null;default:'{}'::jsonb"`

	RunAt  time.Time `gorm:"index;not null"`
	Status string    `gorm:"index;not null;default:'PENDING'"`

	Attempts    int `gorm:"not null;default:0"`
	MaxAttempts int `gorm:"not null;default:3"`

	LockedBy *string    `gorm:"type:text"`
	LockedAt *time.Time `gorm:"type:timestamptz"`

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

// AlertPayload is the denormalized snapshot carried by a PRAZO_ALERT task.
// The worker renders mail from this alone; editing the prazo after enqueue
// does not change an in-flight message.
type AlertPayload struct {
	PrazoID           string    `json:"prazoId"`
	DiasAntes         int       `json:"diasAntes"`
	Titulo            string    `json:"titulo"`
	Descricao         string    `json:"descricao,omitempty"`
	DataVencimento    time.Time `json:"dataVencimento"`
	ResponsavelNome   string    `json:"responsavelNome"`
	ResponsavelEmail  string    `json:"responsavelEmail"`
	ProcessoTitulo    string    `json:"processoTitulo,omitempty"`
	ProcessoNumeroCnj string    `json:"processoNumeroCnj,omitempty"`
}
