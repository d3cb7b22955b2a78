package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"lexmanager/internal/config"
	"lexmanager/internal/jobs"
)

// SMTPMailer sends over plain SMTP. AUTH is only negotiated when a username
// is configured (local dev relays like mailpit take none).
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func New(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		Username: cfg.MailUser,
		Password: cfg.MailPass,
		From:     cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendPrazoAlert(p jobs.AlertPayload) error {
	subject, body := RenderAlert(p)
	return m.send(p.ResponsavelEmail, subject, body)
}

func (m *SMTPMailer) SendWelcome(email, nome, nomeTenant string) error {
	subject := fmt.Sprintf("Bem-vindo ao LexManager, %s!", nome)
	body := fmt.Sprintf(
		"<p>Olá %s,</p>"+
			"<p>Seu escritório <strong>%s</strong> foi cadastrado com sucesso no LexManager.</p>"+
			"<p>Acesse o sistema e comece a gerenciar seus processos.</p>",
		nome, nomeTenant)
	return m.send(email, subject, body)
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	headers := []string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(message))
}

// RenderAlert builds the subject and HTML body for one deadline alert.
// One day out gets the urgency prefix; three or fewer gets the red accent.
func RenderAlert(p jobs.AlertPayload) (string, string) {
	urgencia := ""
	if p.DiasAntes == 1 {
		urgencia = "URGENTE - "
	}
	subject := fmt.Sprintf("%sPrazo vence em %d dia(s): %s", urgencia, p.DiasAntes, p.Titulo)

	cor := "#d97706"
	if p.DiasAntes <= 3 {
		cor = "#dc2626"
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<div style="background: #1e3a8a; color: white; padding: 20px;">`)
	b.WriteString(`<h2 style="margin: 0;">LexManager</h2><p style="margin: 5px 0 0;">Alerta de Prazo</p></div>`)
	b.WriteString(`<div style="padding: 20px; border: 1px solid #e5e7eb; border-top: none;">`)
	fmt.Fprintf(&b, `<h3 style="color: %s;">Prazo vence em %d dia(s)</h3>`, cor, p.DiasAntes)
	fmt.Fprintf(&b, "<p><strong>Prazo:</strong> %s</p>", p.Titulo)
	if p.Descricao != "" {
		fmt.Fprintf(&b, "<p><strong>Descrição:</strong> %s</p>", p.Descricao)
	}
	if p.ProcessoTitulo != "" {
		b.WriteString("<p><strong>Processo:</strong> " + p.ProcessoTitulo)
		if p.ProcessoNumeroCnj != "" {
			fmt.Fprintf(&b, " (%s)", p.ProcessoNumeroCnj)
		}
		b.WriteString("</p>")
	}
	fmt.Fprintf(&b, "<p><strong>Vencimento:</strong> %s</p>", p.DataVencimento.Format("02/01/2006"))
	fmt.Fprintf(&b, "<p><strong>Responsável:</strong> %s</p>", p.ResponsavelNome)
	b.WriteString(`<p style="color: #6b7280; font-size: 14px;">Este é um alerta automático do LexManager.</p>`)
	b.WriteString("</div></div>")

	return subject, b.String()
}
