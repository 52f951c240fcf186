package email

import "github.com/Fingel/fastastro/internal/logger"

// ConsoleBackend does not send anything; it logs messages instead. The
// default for development.
type ConsoleBackend struct{}

func (b *ConsoleBackend) Send(m Message) error {
	logger.Info("mail message",
		"to", m.To,
		"from", m.From,
		"subject", m.Subject,
		"body", m.Body,
	)
	return nil
}
