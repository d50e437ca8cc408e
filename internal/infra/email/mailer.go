// Package email renders the configured template set and delivers mail
// over SMTP. Delivery is a collaborator of the auth core: the core hands
// over a rendered message and never sees transport details.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
)

// Render substitutes the {{url}} placeholder in the template bodies. The
// token is appended to the template's canonical URL as a query parameter.
func Render(tmpl config.Template, token string) (title, text, html string) {
	link := tmpl.URL
	if token != "" {
		sep := "?"
		if strings.Contains(link, "?") {
			sep = "&"
		}
		link = link + sep + "token=" + token
	}

	title = tmpl.Title
	text = strings.ReplaceAll(tmpl.Text, "{{url}}", link)
	if tmpl.HTML != "" {
		html = strings.ReplaceAll(tmpl.HTML, "{{url}}", link)
	}
	return title, text, html
}

// SMTPMailer implements port.Mailer over a plain SMTP submission.
type SMTPMailer struct {
	cfg config.EmailSettings
}

// NewSMTPMailer builds a mailer from email settings.
func NewSMTPMailer(cfg config.EmailSettings) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the message via the configured SMTP host.
func (m *SMTPMailer) Send(_ context.Context, mail port.Mail) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTP.Host, m.cfg.SMTP.Port)

	var auth smtp.Auth
	if m.cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTP.Username, m.cfg.SMTP.Password, m.cfg.SMTP.Host)
	}

	headers := []string{
		"From: " + m.cfg.From,
		"To: " + mail.To,
		"Subject: " + mail.Title,
	}
	if m.cfg.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+m.cfg.ReplyTo)
	}
	headers = append(headers, "MIME-Version: 1.0")

	var body string
	if mail.HTMLBody != "" {
		headers = append(headers, `Content-Type: text/html; charset="utf-8"`)
		body = mail.HTMLBody
	} else {
		headers = append(headers, `Content-Type: text/plain; charset="utf-8"`)
		body = mail.TextBody
	}

	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{mail.To}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer implements port.Mailer by logging the delivery instead of
// sending it. Used whenever email verification is disabled.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer builds the logging mailer.
func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{log: log}
}

// Send records the message without delivering it.
func (m *LogMailer) Send(_ context.Context, mail port.Mail) error {
	m.log.Info("mail suppressed (delivery disabled)",
		zap.String("to", logger.MaskEmail(mail.To)),
		zap.String("title", mail.Title),
	)
	return nil
}
