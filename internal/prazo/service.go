package prazo

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("prazo not found")

type Service struct {
	DB *gorm.DB

	// Loc is the zone all due-date day arithmetic runs in.
	Loc *time.Location
}

type ListQuery struct {
	Status        string
	ResponsavelID string
	Page          int
	Limit         int
}

type CreateInput struct {
	ProcessoID     *string
	ResponsavelID  string
	Titulo         string
	Descricao      *string
	Tipo           string
	DataVencimento time.Time
	Alertas        []int64
}

type UpdateInput struct {
	Titulo         *string
	Descricao      *string
	Tipo           *string
	Status         *string
	DataVencimento *time.Time
	DataConclusao  *time.Time
	Alertas        []int64
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (s *Service) List(ctx context.Context, tenantID string, q ListQuery) ([]Prazo, int64, error) {
	q.normalize()

	base := s.DB.WithContext(ctx).Model(&Prazo{}).Where("tenant_id = ?", tenantID)
	if q.Status != "" {
		base = base.Where("status = ?", q.Status)
	}
	if q.ResponsavelID != "" {
		base = base.Where("responsavel_id = ?", q.ResponsavelID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Prazo
	err := base.
		Preload("Responsavel").
		Preload("Processo").
		Order("data_vencimento asc").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Prazo, error) {
	var p Prazo
	err := s.DB.WithContext(ctx).
		Preload("Responsavel").
		Preload("Processo").
		Preload("Notificacoes", func(db *gorm.DB) *gorm.DB {
			return db.Order("dias_antes asc")
		}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Prazo{}, ErrNotFound
		}
		return Prazo{}, err
	}
	return p, nil
}

// Create writes the prazo and its per-lead-time notification rows in one
// transaction: a prazo must never exist without its notification set.
func (s *Service) Create(ctx context.Context, tenantID, userID string, in CreateInput) (Prazo, error) {
	if in.ResponsavelID == "" {
		in.ResponsavelID = userID
	}
	alertas := NormalizeAlertas(in.Alertas)

	p := Prazo{
		TenantID:       tenantID,
		ProcessoID:     in.ProcessoID,
		ResponsavelID:  in.ResponsavelID,
		Titulo:         in.Titulo,
		Descricao:      in.Descricao,
		Tipo:           in.Tipo,
		Status:         StatusPendente,
		DataVencimento: in.DataVencimento,
		Alertas:        pq.Int64Array(alertas),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return createNotificacoes(tx, p.ID, alertas)
	})
	if err != nil {
		return Prazo{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, tenantID, id string, in UpdateInput) (Prazo, error) {
	var p Prazo
	err := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Prazo{}, ErrNotFound
		}
		return Prazo{}, err
	}

	patch := map[string]any{"updated_at": time.Now()}
	if in.Titulo != nil {
		patch["titulo"] = *in.Titulo
	}
	if in.Descricao != nil {
		patch["descricao"] = *in.Descricao
	}
	if in.Tipo != nil {
		patch["tipo"] = *in.Tipo
	}
	if in.DataVencimento != nil {
		patch["data_vencimento"] = *in.DataVencimento
	}
	if in.DataConclusao != nil {
		patch["data_conclusao"] = *in.DataConclusao
	}
	if in.Status != nil {
		patch["status"] = *in.Status
		if *in.Status == StatusConcluido && in.DataConclusao == nil {
			patch["data_conclusao"] = time.Now()
		}
	}

	var alertas []int64
	if in.Alertas != nil {
		alertas = NormalizeAlertas(in.Alertas)
		patch["alertas"] = pq.Int64Array(alertas)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&p).Updates(patch).Error; err != nil {
			return err
		}
		if in.Alertas == nil {
			return nil
		}
		var existing []PrazoNotificacao
		if err := tx.Where("prazo_id = ?", p.ID).Find(&existing).Error; err != nil {
			return err
		}
		remove, insert := PlanAlertas(existing, alertas)
		if len(remove) > 0 {
			if err := tx.Where("prazo_id = ? AND status = ? AND dias_antes IN ?", p.ID, NotifPendente, remove).
				Delete(&PrazoNotificacao{}).Error; err != nil {
				return err
			}
		}
		return createNotificacoes(tx, p.ID, insert)
	})
	if err != nil {
		return Prazo{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&Prazo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PlanAlertas diffs the desired lead-time set against the existing
// notification rows. Only PENDENTE rows outside the new set are removed;
// ENVIADO and FALHOU rows are history and always survive. A lead-time that
// already has a row, whatever its status, is not inserted again.
func PlanAlertas(existing []PrazoNotificacao, alertas []int64) (remove, insert []int64) {
	want := make(map[int64]struct{}, len(alertas))
	for _, a := range alertas {
		want[a] = struct{}{}
	}

	have := make(map[int64]struct{}, len(existing))
	for _, n := range existing {
		dias := int64(n.DiasAntes)
		have[dias] = struct{}{}
		if _, keep := want[dias]; !keep && n.Status == NotifPendente {
			remove = append(remove, dias)
		}
	}

	for _, a := range alertas {
		if _, ok := have[a]; !ok {
			insert = append(insert, a)
		}
	}

	sort.Slice(remove, func(i, j int) bool { return remove[i] < remove[j] })
	return remove, insert
}

// createNotificacoes inserts one PENDENTE row per lead-time with
// skip-duplicates semantics on (prazo_id, dias_antes); the ON CONFLICT
// clause backs up PlanAlertas against concurrent edits.
func createNotificacoes(tx *gorm.DB, prazoID string, alertas []int64) error {
	for _, dias := range alertas {
		n := PrazoNotificacao{
			PrazoID:   prazoID,
			DiasAntes: int(dias),
			Canal:     "email",
			Status:    NotifPendente,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "prazo_id"}, {Name: "dias_antes"}},
			DoNothing: true,
		}).Create(&n).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// FindDue returns every pending prazo whose due date falls on the calendar
// day diasAntes days after now, provided a matching pending notification
// exists. Deliberately not tenant-scoped: alerting runs across all tenants.
func (s *Service) FindDue(ctx context.Context, diasAntes int, now time.Time) ([]Prazo, error) {
	start, end := DayWindow(now, diasAntes, s.Loc)

	var rows []Prazo
	err := s.DB.WithContext(ctx).
		Preload("Responsavel").
		Preload("Processo").
		Preload("Notificacoes", "dias_antes = ? AND status = ?", diasAntes, NotifPendente).
		Where("status = ?", StatusPendente).
		Where("data_vencimento BETWEEN ? AND ?", start, end).
		Where(`EXISTS (
			SELECT 1 FROM prazo_notificacoes n
			WHERE n.prazo_id = prazos.id AND n.dias_antes = ? AND n.status = ?
		)`, diasAntes, NotifPendente).
		Find(&rows).Error
	return rows, err
}

// MarkEnviadas flips every still-pending notification for the pair to
// ENVIADO. Written as a filtered multi-row update so a duplicate task, or a
// racing worker, matches zero rows instead of rewriting history.
func (s *Service) MarkEnviadas(ctx context.Context, prazoID string, diasAntes int, sentAt time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&PrazoNotificacao{}).
		Where("prazo_id = ? AND dias_antes = ? AND status = ?", prazoID, diasAntes, NotifPendente).
		Updates(map[string]any{"status": NotifEnviado, "enviado_em": sentAt})
	return res.RowsAffected, res.Error
}

func (s *Service) MarkFalhas(ctx context.Context, prazoID string, diasAntes int, errText string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&PrazoNotificacao{}).
		Where("prazo_id = ? AND dias_antes = ? AND status = ?", prazoID, diasAntes, NotifPendente).
		Updates(map[string]any{"status": NotifFalhou, "erro": errText})
	return res.RowsAffected, res.Error
}

// DayWindow is the inclusive [00:00:00, 23:59:59.999999999] span of the
// calendar day exactly dias days after now, computed in loc.
func DayWindow(now time.Time, dias int, loc *time.Location) (time.Time, time.Time) {
	target := now.In(loc).AddDate(0, 0, dias)
	start := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// NormalizeAlertas drops negatives, dedupes and sorts the lead-time set.
// An empty or all-invalid set falls back to the process-wide default so a
// prazo that wants notifications never ends up with none.
func NormalizeAlertas(alertas []int64) []int64 {
	seen := map[int64]struct{}{}
	out := make([]int64, 0, len(alertas))
	for _, a := range alertas {
		if a < 0 {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	if len(out) == 0 {
		out = append(out, DefaultAlertas...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
