package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lexmanager/internal/jobs"
)

func payload(dias int) jobs.AlertPayload {
	return jobs.AlertPayload{
		PrazoID:          "p1",
		DiasAntes:        dias,
		Titulo:           "Contestação",
		DataVencimento:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		ResponsavelNome:  "Ana",
		ResponsavelEmail: "ana@escritorio.com",
	}
}

func TestRenderAlertUrgentPrefixOnlyAtOneDay(t *testing.T) {
	subject, _ := RenderAlert(payload(1))
	assert.Equal(t, "URGENTE - Prazo vence em 1 dia(s): Contestação", subject)

	subject, _ = RenderAlert(payload(3))
	assert.Equal(t, "Prazo vence em 3 dia(s): Contestação", subject)
}

func TestRenderAlertAccentColor(t *testing.T) {
	_, body := RenderAlert(payload(3))
	assert.Contains(t, body, "#dc2626")

	_, body = RenderAlert(payload(7))
	assert.Contains(t, body, "#d97706")
}

func TestRenderAlertBody(t *testing.T) {
	p := payload(7)
	p.Descricao = "Protocolar até o fim do expediente"
	p.ProcessoTitulo = "Silva vs. Souza"
	p.ProcessoNumeroCnj = "0001234-56.2025.8.26.0100"

	_, body := RenderAlert(p)

	assert.Contains(t, body, "Contestação")
	assert.Contains(t, body, "Protocolar até o fim do expediente")
	assert.Contains(t, body, "Silva vs. Souza")
	assert.Contains(t, body, "0001234-56.2025.8.26.0100")
	assert.Contains(t, body, "10/06/2025")
	assert.Contains(t, body, "Ana")
}

func TestRenderAlertOmitsOptionalBlocks(t *testing.T) {
	_, body := RenderAlert(payload(7))

	assert.NotContains(t, body, "Descrição")
	assert.NotContains(t, body, "Processo:")
}
