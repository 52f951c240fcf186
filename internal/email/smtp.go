package email

import (
	"github.com/Fingel/fastastro/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPBackend delivers mail through an SMTP relay.
type SMTPBackend struct {
	cfg *config.Config
}

func NewSMTPBackend(cfg *config.Config) *SMTPBackend {
	return &SMTPBackend{cfg: cfg}
}

func (b *SMTPBackend) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(
		b.cfg.Email.SMTPHost,
		b.cfg.Email.SMTPPort,
		b.cfg.Email.SMTPUser,
		b.cfg.Email.SMTPPass,
	)

	return d.DialAndSend(m)
}
