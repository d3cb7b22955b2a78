package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"lexmanager/internal/metrics"
)

const backoffBase = 5 * time.Second

// Queue is what the worker needs from the job store. *Repo satisfies it.
type Queue interface {
	Claim(workerID string) (*Job, error)
	MarkDone(id uint64) error
	MarkFailed(id uint64, errMsg string) error
	RetryLater(id uint64, attempts int, runAt time.Time, errMsg string) error
}

// Mailer transmits one rendered alert. Blocking network call.
type Mailer interface {
	SendPrazoAlert(p AlertPayload) error
}

// NotificationStore flips notification rows after a delivery attempt.
// Implemented by prazo.Service.
type NotificationStore interface {
	MarkEnviadas(ctx context.Context, prazoID string, diasAntes int, sentAt time.Time) (int64, error)
	MarkFalhas(ctx context.Context, prazoID string, diasAntes int, errText string) (int64, error)
}

type Worker struct {
	ID     string
	Queue  Queue
	Notifs NotificationStore
	Mailer Mailer
	Log    zerolog.Logger
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Queue.Claim(w.ID)
			if err != nil {
				w.Log.Error().Err(err).Msg("worker claim failed")
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypePrazoAlert:
		w.handleAlert(ctx, job)
	default:
		_ = w.Queue.MarkFailed(job.ID, "unknown job type")
	}
}

func (w *Worker) handleAlert(ctx context.Context, job *Job) {
	var p AlertPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		_ = w.Queue.MarkFailed(job.ID, "bad payload")
		return
	}

	log := w.Log.With().
		Uint64("job", job.ID).
		Str("prazo", p.PrazoID).
		Int("dias_antes", p.DiasAntes).
		Logger()

	if err := w.Mailer.SendPrazoAlert(p); err != nil {
		log.Error().Err(err).Msg("alert mail failed")
		metrics.AlertsFailed.Inc()

		if _, serr := w.Notifs.MarkFalhas(ctx, p.PrazoID, p.DiasAntes, err.Error()); serr != nil {
			log.Error().Err(serr).Msg("recording failure state failed")
		}
		w.retry(job, err.Error())
		return
	}

	n, err := w.Notifs.MarkEnviadas(ctx, p.PrazoID, p.DiasAntes, time.Now())
	if err != nil {
		// Mail went out but the status write failed. Retrying resends the
		// mail; the alternative is losing the audit row. Retry.
		log.Error().Err(err).Msg("recording sent state failed")
		w.retry(job, err.Error())
		return
	}
	if n == 0 {
		// Duplicate task raced a finished one; nothing left to flip, and the
		// sent counter must not move twice for one notification.
		log.Debug().Msg("alert already recorded, no-op")
	} else {
		metrics.AlertsSent.Inc()
		log.Info().Int64("rows", n).Msg("alert sent")
	}
	_ = w.Queue.MarkDone(job.ID)
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Queue.MarkFailed(job.ID, errMsg)
		return
	}
	next := time.Now().Add(retryDelay(attempts))
	_ = w.Queue.RetryLater(job.ID, attempts, next, errMsg)
}

// retryDelay doubles from 5s per failed attempt: 5s, 10s, 20s, ... capped at
// 10 minutes.
func retryDelay(attempts int) time.Duration {
	d := backoffBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= 10*time.Minute {
			return 10 * time.Minute
		}
	}
	return d
}
