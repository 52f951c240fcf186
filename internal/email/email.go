// Package email provides the mail backends and the background dispatcher
// that delivers messages without blocking request handling.
package email

import (
	"fmt"

	"github.com/Fingel/fastastro/internal/config"
)

// Message is a plain-text mail message.
type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Backend delivers a single message. Implementations: SMTP, console, and an
// in-memory capture used by tests.
type Backend interface {
	Send(m Message) error
}

// NewBackend selects a backend from configuration. Called once at startup.
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.Email.Backend {
	case config.MailBackendSMTP:
		return NewSMTPBackend(cfg), nil
	case config.MailBackendConsole:
		return &ConsoleBackend{}, nil
	case config.MailBackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("email backend not available: %s", cfg.Email.Backend)
	}
}
