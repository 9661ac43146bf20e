package relay

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	// To is the mailbox that receives contact messages.
	To string
}

// SMTP relays through an authenticated mail submission server.
type SMTP struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &SMTP{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *SMTP) Send(ctx context.Context, p Payload) error {
	if s.cfg.User == "" || s.cfg.Pass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, auth, s.cfg.User, []string{s.cfg.To}, composeMessage(s.cfg, p))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}

func composeMessage(cfg SMTPConfig, p Payload) []byte {
	body := fmt.Sprintf(`
New contact form submission for %s:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, p.RecipientName, p.SenderName, p.SenderEmail, p.Message)

	return []byte("To: " + cfg.To + "\r\n" +
		"Subject: " + headerValue(p.Subject) + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + headerValue(p.SenderEmail) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerValue strips line breaks so visitor input cannot inject headers.
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
