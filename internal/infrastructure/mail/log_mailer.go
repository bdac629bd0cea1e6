package mail

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// LogMailer writes messages to the log instead of sending them.
// It also keeps the sent messages so tests can inspect them.
type LogMailer struct {
	logger *zap.Logger
	mu     sync.Mutex
	sent   []Message
}

// NewLogMailer creates a log-only mailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	m.logger.Info("Email (not delivered, log driver)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}

// Sent returns a copy of every message accepted so far
func (m *LogMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// New picks the mailer implementation named by the configured driver
func New(driver string, smtp *SMTPMailer, logger *zap.Logger) Mailer {
	if driver == "smtp" && smtp != nil {
		return smtp
	}
	return NewLogMailer(logger)
}
