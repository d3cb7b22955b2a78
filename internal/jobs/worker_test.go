package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmanager/internal/metrics"
)

type fakeQueue struct {
	done       []uint64
	failed     map[uint64]string
	retried    []retryCall
	claimQueue []*Job
}

type retryCall struct {
	id       uint64
	attempts int
	runAt    time.Time
	errMsg   string
}

func (q *fakeQueue) Claim(string) (*Job, error) {
	if len(q.claimQueue) == 0 {
		return nil, nil
	}
	j := q.claimQueue[0]
	q.claimQueue = q.claimQueue[1:]
	return j, nil
}

func (q *fakeQueue) MarkDone(id uint64) error {
	q.done = append(q.done, id)
	return nil
}

func (q *fakeQueue) MarkFailed(id uint64, errMsg string) error {
	if q.failed == nil {
		q.failed = map[uint64]string{}
	}
	q.failed[id] = errMsg
	return nil
}

func (q *fakeQueue) RetryLater(id uint64, attempts int, runAt time.Time, errMsg string) error {
	q.retried = append(q.retried, retryCall{id, attempts, runAt, errMsg})
	return nil
}

type fakeMailer struct {
	sent []AlertPayload
	err  error
}

func (m *fakeMailer) SendPrazoAlert(p AlertPayload) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, p)
	return nil
}

type fakeNotifs struct {
	enviadas int
	falhas   int
	rows     int64
	errText  string
	err      error
}

func (n *fakeNotifs) MarkEnviadas(context.Context, string, int, time.Time) (int64, error) {
	n.enviadas++
	return n.rows, n.err
}

func (n *fakeNotifs) MarkFalhas(_ context.Context, _ string, _ int, errText string) (int64, error) {
	n.falhas++
	n.errText = errText
	return n.rows, nil
}

func alertJob(t *testing.T, id uint64, attempts int) *Job {
	t.Helper()
	payload, err := json.Marshal(AlertPayload{
		PrazoID:          "prazo-1",
		DiasAntes:        3,
		Titulo:           "Contestação",
		DataVencimento:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		ResponsavelNome:  "Ana",
		ResponsavelEmail: "ana@escritorio.com",
	})
	require.NoError(t, err)
	return &Job{
		ID:          id,
		Type:        TypePrazoAlert,
		Payload:     payload,
		Attempts:    attempts,
		MaxAttempts: DefaultMaxAttempts,
	}
}

func newWorker(q *fakeQueue, m *fakeMailer, n *fakeNotifs) *Worker {
	return &Worker{ID: "w1", Queue: q, Notifs: n, Mailer: m, Log: zerolog.Nop()}
}

func TestHandleAlertSuccess(t *testing.T) {
	q := &fakeQueue{}
	m := &fakeMailer{}
	n := &fakeNotifs{rows: 1}
	w := newWorker(q, m, n)

	sentBefore := testutil.ToFloat64(metrics.AlertsSent)
	w.handle(context.Background(), alertJob(t, 42, 0))

	assert.Equal(t, sentBefore+1, testutil.ToFloat64(metrics.AlertsSent))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "prazo-1", m.sent[0].PrazoID)
	assert.Equal(t, 1, n.enviadas)
	assert.Equal(t, 0, n.falhas)
	assert.Equal(t, []uint64{42}, q.done)
	assert.Empty(t, q.retried)
}

func TestHandleAlertZeroRowsStillDone(t *testing.T) {
	q := &fakeQueue{}
	m := &fakeMailer{}
	n := &fakeNotifs{rows: 0}
	w := newWorker(q, m, n)

	sentBefore := testutil.ToFloat64(metrics.AlertsSent)
	w.handle(context.Background(), alertJob(t, 7, 0))

	assert.Equal(t, []uint64{7}, q.done)
	assert.Empty(t, q.failed)
	// A duplicate task flips no rows and must not move the sent counter.
	assert.Equal(t, sentBefore, testutil.ToFloat64(metrics.AlertsSent))
}

func TestHandleAlertMailFailureSchedulesRetry(t *testing.T) {
	q := &fakeQueue{}
	m := &fakeMailer{err: errors.New("smtp: connection refused")}
	n := &fakeNotifs{}
	w := newWorker(q, m, n)

	w.handle(context.Background(), alertJob(t, 9, 0))

	assert.Equal(t, 1, n.falhas)
	assert.Equal(t, "smtp: connection refused", n.errText)
	assert.Equal(t, 0, n.enviadas)
	assert.Empty(t, q.done)

	require.Len(t, q.retried, 1)
	assert.Equal(t, uint64(9), q.retried[0].id)
	assert.Equal(t, 1, q.retried[0].attempts)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), q.retried[0].runAt, time.Second)
}

func TestHandleAlertExhaustedAttemptsMarksFailed(t *testing.T) {
	q := &fakeQueue{}
	m := &fakeMailer{err: errors.New("smtp: permanent failure")}
	n := &fakeNotifs{}
	w := newWorker(q, m, n)

	// Third attempt (attempts=2 going in) exhausts MaxAttempts=3.
	w.handle(context.Background(), alertJob(t, 11, 2))

	assert.Empty(t, q.retried)
	require.Contains(t, q.failed, uint64(11))
	assert.Equal(t, "smtp: permanent failure", q.failed[11])
}

func TestHandleAlertBadPayloadFailsOutright(t *testing.T) {
	q := &fakeQueue{}
	w := newWorker(q, &fakeMailer{}, &fakeNotifs{})

	w.handle(context.Background(), &Job{ID: 5, Type: TypePrazoAlert, Payload: []byte("{nope")})

	require.Contains(t, q.failed, uint64(5))
	assert.Empty(t, q.retried)
}

func TestHandleUnknownTypeFails(t *testing.T) {
	q := &fakeQueue{}
	w := newWorker(q, &fakeMailer{}, &fakeNotifs{})

	w.handle(context.Background(), &Job{ID: 3, Type: "NOPE"})

	assert.Contains(t, q.failed, uint64(3))
}

func TestHandleAlertStatusWriteFailureRetries(t *testing.T) {
	q := &fakeQueue{}
	m := &fakeMailer{}
	n := &fakeNotifs{err: errors.New("db down")}
	w := newWorker(q, m, n)

	w.handle(context.Background(), alertJob(t, 13, 0))

	// Mail went out but the writeback failed; the task comes back.
	require.Len(t, m.sent, 1)
	assert.Empty(t, q.done)
	require.Len(t, q.retried, 1)
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{8, 10 * time.Minute},
		{20, 10 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, retryDelay(tt.attempts), "attempts=%d", tt.attempts)
	}
}
