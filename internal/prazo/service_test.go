package prazo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	utc := time.UTC
	now := time.Date(2025, 6, 3, 14, 30, 0, 0, utc)

	start, end := DayWindow(now, 7, utc)

	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, utc), start)
	assert.Equal(t, time.Date(2025, 6, 10, 23, 59, 59, 999999999, utc), end)
}

func TestDayWindowZeroDays(t *testing.T) {
	utc := time.UTC
	now := time.Date(2025, 6, 3, 23, 59, 0, 0, utc)

	start, end := DayWindow(now, 0, utc)

	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, utc), start)
	assert.True(t, end.After(now))
}

func TestDayWindowCrossesMonth(t *testing.T) {
	utc := time.UTC
	now := time.Date(2025, 1, 29, 10, 0, 0, 0, utc)

	start, _ := DayWindow(now, 3, utc)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, utc), start)
}

func TestDayWindowRespectsZone(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:00 UTC is still the previous day in São Paulo (UTC-3).
	now := time.Date(2025, 6, 4, 1, 0, 0, 0, time.UTC)

	start, _ := DayWindow(now, 1, sp)

	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, sp), start)
}

func notif(dias int, status string) PrazoNotificacao {
	return PrazoNotificacao{PrazoID: "p1", DiasAntes: dias, Canal: "email", Status: status}
}

func TestPlanAlertas(t *testing.T) {
	tests := []struct {
		name       string
		existing   []PrazoNotificacao
		alertas    []int64
		wantRemove []int64
		wantInsert []int64
	}{
		{
			name:       "fresh prazo inserts every lead-time",
			alertas:    []int64{1, 3, 7},
			wantInsert: []int64{1, 3, 7},
		},
		{
			name: "existing pairs are not reinserted",
			existing: []PrazoNotificacao{
				notif(1, NotifPendente), notif(3, NotifPendente), notif(7, NotifPendente),
			},
			alertas: []int64{1, 3, 7},
		},
		{
			name: "narrowing removes only pending rows",
			existing: []PrazoNotificacao{
				notif(1, NotifEnviado), notif(3, NotifPendente),
				notif(7, NotifPendente), notif(15, NotifPendente),
			},
			alertas:    []int64{1, 7},
			wantRemove: []int64{3, 15},
		},
		{
			name:       "failed rows survive and block reinsertion",
			existing:   []PrazoNotificacao{notif(3, NotifFalhou)},
			alertas:    []int64{3, 7},
			wantInsert: []int64{7},
		},
		{
			name: "sent rows outside the set are kept as history",
			existing: []PrazoNotificacao{
				notif(1, NotifEnviado), notif(15, NotifEnviado),
			},
			alertas:    []int64{7},
			wantInsert: []int64{7},
		},
		{
			name:       "widening inserts only the new lead-times",
			existing:   []PrazoNotificacao{notif(1, NotifPendente), notif(7, NotifPendente)},
			alertas:    []int64{1, 7, 15},
			wantInsert: []int64{15},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remove, insert := PlanAlertas(tt.existing, tt.alertas)
			assert.Equal(t, tt.wantRemove, remove)
			assert.Equal(t, tt.wantInsert, insert)
		})
	}
}

func TestNormalizeAlertas(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
		want []int64
	}{
		{"sorts and dedupes", []int64{7, 1, 7, 3}, []int64{1, 3, 7}},
		{"drops negatives", []int64{-1, 5, -3}, []int64{5}},
		{"keeps zero", []int64{0, 1}, []int64{0, 1}},
		{"empty falls back to defaults", nil, []int64{1, 3, 7, 15}},
		{"all invalid falls back to defaults", []int64{-2, -9}, []int64{1, 3, 7, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAlertas(tt.in))
		})
	}
}
