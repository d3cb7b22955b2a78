package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lexmanager/internal/auth"
	"lexmanager/internal/cliente"
	"lexmanager/internal/documento"
	"lexmanager/internal/financeiro"
	"lexmanager/internal/jobs"
	"lexmanager/internal/prazo"
	"lexmanager/internal/processo"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&auth.Tenant{},
		&auth.User{},
		&auth.RefreshToken{},
		&cliente.Cliente{},
		&processo.Processo{},
		&processo.Movimentacao{},
		&processo.ProcessoCliente{},
		&prazo.Prazo{},
		&prazo.PrazoNotificacao{},
		&financeiro.Lancamento{},
		&documento.Documento{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	stmts := []string{
		// one notification per (prazo, lead-time); the skip-duplicates create
		// and the worker's filtered updates both lean on this
		`create unique index if not exists uq_notif_prazo_dias on prazo_notificacoes(prazo_id, dias_antes);`,
		`create index if not exists idx_notif_status on prazo_notificacoes(status, dias_antes);`,

		// the hourly due scan
		`create index if not exists idx_prazos_due on prazos(status, data_vencimento);`,

		// one account email per tenant
		`create unique index if not exists uq_users_tenant_email on users(tenant_id, email);`,

		// queue claim path
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,

		`create index if not exists idx_refresh_user on refresh_tokens(user_id, revogado);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
