package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmanager/internal/auth"
	"lexmanager/internal/jobs"
	"lexmanager/internal/prazo"
	"lexmanager/internal/processo"
)

type fakeFinder struct {
	byDias map[int][]prazo.Prazo
	errFor map[int]error
	calls  []int
}

func (f *fakeFinder) FindDue(_ context.Context, diasAntes int, _ time.Time) ([]prazo.Prazo, error) {
	f.calls = append(f.calls, diasAntes)
	if err := f.errFor[diasAntes]; err != nil {
		return nil, err
	}
	return f.byDias[diasAntes], nil
}

type fakeAlertQueue struct {
	enqueued []jobs.AlertPayload
	failOn   string
}

func (q *fakeAlertQueue) EnqueueAlert(_ context.Context, p jobs.AlertPayload) error {
	if q.failOn != "" && p.PrazoID == q.failOn {
		return errors.New("queue full")
	}
	q.enqueued = append(q.enqueued, p)
	return nil
}

func duePrazo(id, titulo string) prazo.Prazo {
	return prazo.Prazo{
		ID:             id,
		Titulo:         titulo,
		DataVencimento: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Responsavel:    auth.User{Nome: "Ana", Email: "ana@escritorio.com"},
	}
}

func TestTickEnqueuesEveryLeadTime(t *testing.T) {
	f := &fakeFinder{byDias: map[int][]prazo.Prazo{
		1: {duePrazo("p1", "Contestação")},
		7: {duePrazo("p7", "Recurso")},
	}}
	q := &fakeAlertQueue{}
	s := &Scheduler{Finder: f, Queue: q, Log: zerolog.Nop()}

	s.Tick(context.Background())

	assert.Equal(t, []int{1, 3, 7, 15}, f.calls)
	require.Len(t, q.enqueued, 2)
	assert.Equal(t, "p1", q.enqueued[0].PrazoID)
	assert.Equal(t, 1, q.enqueued[0].DiasAntes)
	assert.Equal(t, "p7", q.enqueued[1].PrazoID)
	assert.Equal(t, 7, q.enqueued[1].DiasAntes)
}

func TestTickFinderErrorDoesNotAbortScan(t *testing.T) {
	f := &fakeFinder{
		byDias: map[int][]prazo.Prazo{15: {duePrazo("p15", "Embargos")}},
		errFor: map[int]error{1: errors.New("db timeout")},
	}
	q := &fakeAlertQueue{}
	s := &Scheduler{Finder: f, Queue: q, Log: zerolog.Nop()}

	s.Tick(context.Background())

	assert.Equal(t, []int{1, 3, 7, 15}, f.calls)
	require.Len(t, q.enqueued, 1)
	assert.Equal(t, "p15", q.enqueued[0].PrazoID)
}

func TestTickEnqueueErrorSkipsOnlyThatPrazo(t *testing.T) {
	f := &fakeFinder{byDias: map[int][]prazo.Prazo{
		3: {duePrazo("bad", "A"), duePrazo("ok", "B")},
	}}
	q := &fakeAlertQueue{failOn: "bad"}
	s := &Scheduler{Finder: f, Queue: q, Log: zerolog.Nop()}

	s.Tick(context.Background())

	require.Len(t, q.enqueued, 1)
	assert.Equal(t, "ok", q.enqueued[0].PrazoID)
}

func TestSnapshotCarriesProcessoAndDescricao(t *testing.T) {
	desc := "Protocolar até o fim do expediente"
	cnj := "0001234-56.2025.8.26.0100"
	p := duePrazo("p1", "Contestação")
	p.Descricao = &desc
	p.Processo = &processo.Processo{Titulo: "Silva vs. Souza", NumeroCnj: &cnj}

	out := snapshot(p, 3)

	assert.Equal(t, "p1", out.PrazoID)
	assert.Equal(t, 3, out.DiasAntes)
	assert.Equal(t, desc, out.Descricao)
	assert.Equal(t, "Silva vs. Souza", out.ProcessoTitulo)
	assert.Equal(t, cnj, out.ProcessoNumeroCnj)
	assert.Equal(t, "ana@escritorio.com", out.ResponsavelEmail)
}

func TestSnapshotWithoutProcesso(t *testing.T) {
	out := snapshot(duePrazo("p2", "Audiência"), 1)

	assert.Empty(t, out.ProcessoTitulo)
	assert.Empty(t, out.ProcessoNumeroCnj)
	assert.Empty(t, out.Descricao)
}
