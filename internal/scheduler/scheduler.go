package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"lexmanager/internal/jobs"
	"lexmanager/internal/metrics"
	"lexmanager/internal/prazo"
)

// advisoryLockKey serializes the hourly scan across API instances; a tick
// that loses the lock is skipped, the winner's scan covers it.
const advisoryLockKey = 0x6c65786d // "lexm"

type Finder interface {
	FindDue(ctx context.Context, diasAntes int, now time.Time) ([]prazo.Prazo, error)
}

type AlertQueue interface {
	EnqueueAlert(ctx context.Context, p jobs.AlertPayload) error
}

type Scheduler struct {
	DB     *gorm.DB
	Finder Finder
	Queue  AlertQueue
	Log    zerolog.Logger

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// Start registers the hourly tick (top of the hour, wall clock) and starts
// the cron runner. The returned cron is stopped by the caller on shutdown.
func (s *Scheduler) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc("0 * * * *", func() { s.Tick(ctx) }); err != nil {
		return nil, err
	}
	c.Start()
	s.Log.Info().Msg("prazo alert scheduler started")
	return c, nil
}

func (s *Scheduler) Tick(ctx context.Context) {
	if s.DB == nil {
		s.scan(ctx)
		return
	}

	err := s.DB.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		var got bool
		if err := conn.Raw("select pg_try_advisory_lock(?)", advisoryLockKey).Scan(&got).Error; err != nil {
			return err
		}
		if !got {
			s.Log.Debug().Msg("scan held by another instance, skipping tick")
			return nil
		}
		defer conn.Exec("select pg_advisory_unlock(?)", advisoryLockKey)

		s.scan(ctx)
		return nil
	})
	if err != nil {
		s.Log.Error().Err(err).Msg("scheduler tick failed")
	}
}

// scan walks the process-wide lead-time list. A failing lead-time or a
// failing enqueue never aborts the rest of the tick.
func (s *Scheduler) scan(ctx context.Context) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	s.Log.Info().Msg("scanning for due prazos")

	for _, dias := range prazo.DefaultAlertas {
		diasAntes := int(dias)

		rows, err := s.Finder.FindDue(ctx, diasAntes, now)
		if err != nil {
			s.Log.Error().Err(err).Int("dias_antes", diasAntes).Msg("due scan failed")
			continue
		}

		for _, p := range rows {
			if err := s.Queue.EnqueueAlert(ctx, snapshot(p, diasAntes)); err != nil {
				s.Log.Error().Err(err).
					Str("prazo", p.ID).
					Int("dias_antes", diasAntes).
					Msg("enqueue failed")
				continue
			}
			metrics.AlertsEnqueued.Inc()
		}
	}

	s.Log.Info().Msg("due prazo scan finished")
}

func snapshot(p prazo.Prazo, diasAntes int) jobs.AlertPayload {
	out := jobs.AlertPayload{
		PrazoID:          p.ID,
		DiasAntes:        diasAntes,
		Titulo:           p.Titulo,
		DataVencimento:   p.DataVencimento,
		ResponsavelNome:  p.Responsavel.Nome,
		ResponsavelEmail: p.Responsavel.Email,
	}
	if p.Descricao != nil {
		out.Descricao = *p.Descricao
	}
	if p.Processo != nil {
		out.ProcessoTitulo = p.Processo.Titulo
		if p.Processo.NumeroCnj != nil {
			out.ProcessoNumeroCnj = *p.Processo.NumeroCnj
		}
	}
	return out
}
