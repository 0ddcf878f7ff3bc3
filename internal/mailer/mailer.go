package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Mailer отправляет письма со ссылкой подтверждения email.
type Mailer interface {
	SendVerification(ctx context.Context, to, token string) error
}

// VerifyLink собирает ссылку подтверждения для публичного адреса сервиса.
func VerifyLink(publicURL, token string) string {
	return strings.TrimRight(publicURL, "/") + "/api/user/verify/" + token
}

// LogMailer пишет ссылку подтверждения в лог вместо отправки (режим разработки).
type LogMailer struct {
	logger    *zap.SugaredLogger
	publicURL string
}

func NewLogMailer(logger *zap.SugaredLogger, publicURL string) *LogMailer {
	return &LogMailer{logger: logger, publicURL: publicURL}
}

func (m *LogMailer) SendVerification(_ context.Context, to, token string) error {
	m.logger.Infow("verification email", "to", to, "link", VerifyLink(m.publicURL, token))
	return nil
}

// SMTPConfig: параметры SMTP-сервера.
type SMTPConfig struct {
	Addr      string // host:port
	User      string
	Password  string
	From      string
	PublicURL string
}

// SMTPMailer отправляет письма через SMTP.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if m.cfg.User != "" {
		host := m.cfg.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, host)
	}
	if err := m.send(m.cfg.Addr, auth, m.cfg.From, []string{to}, m.message(to, token)); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) message(to, token string) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.cfg.From + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Confirm your email\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString("Please confirm your email address by opening the link below:\r\n\r\n")
	b.WriteString(VerifyLink(m.cfg.PublicURL, token) + "\r\n\r\n")
	b.WriteString("The link is valid for 24 hours.\r\n")
	return []byte(b.String())
}
