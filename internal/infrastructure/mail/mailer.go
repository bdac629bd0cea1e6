// Package mail delivers transactional email.
package mail

import (
	"context"
	"errors"
	"strings"
)

// Message is one outbound email. HTML is optional; when both bodies are set
// the message is sent as multipart/alternative.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Validate checks the message has a recipient, a subject and a body
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return errors.New("mail: message has no recipient")
	}
	for _, to := range m.To {
		if strings.ContainsAny(to, "\r\n") || !strings.Contains(to, "@") {
			return errors.New("mail: invalid recipient " + to)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("mail: message has no subject")
	}
	if m.Text == "" && m.HTML == "" {
		return errors.New("mail: message has no body")
	}
	return nil
}

// Mailer sends email messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
