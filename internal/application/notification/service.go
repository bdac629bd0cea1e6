// Package notification renders and sends the platform's transactional email.
package notification

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/erp/platform/internal/infrastructure/mail"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Delivery reports the outcome of one email. A failed send never fails the
// originating operation; it is surfaced to the client through this value.
type Delivery struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// Delivered is the Delivery of a successful send
func Delivered() Delivery { return Delivery{Sent: true} }

// Failed is the Delivery of an unsuccessful send
func Failed(err error) Delivery { return Delivery{Error: err.Error()} }

// WelcomeMail is sent after registration
type WelcomeMail struct {
	To               string
	Name             string
	OrganizationName string
	VerifyToken      string
}

// VerificationMail carries a new email verification link
type VerificationMail struct {
	To    string
	Name  string
	Token string
}

// PasswordResetMail carries a password reset link
type PasswordResetMail struct {
	To    string
	Name  string
	Token string
	TTL   time.Duration
}

// InvoiceMail notifies a client of an issued invoice
type InvoiceMail struct {
	To               string
	ClientName       string
	OrganizationName string
	InvoiceNumber    string
	IssueDate        time.Time
	DueDate          time.Time
	Currency         string
	Total            decimal.Decimal
	BalanceDue       decimal.Decimal
	PDFURL           string
}

// ReminderMail reminds a contact of an upcoming appointment
type ReminderMail struct {
	To          string
	Name        string
	Subject     string
	ScheduledAt time.Time
	Duration    string
	Description string
}

// Notifier sends the platform's transactional email
type Notifier interface {
	Welcome(ctx context.Context, m WelcomeMail) Delivery
	EmailVerification(ctx context.Context, m VerificationMail) Delivery
	PasswordReset(ctx context.Context, m PasswordResetMail) Delivery
	InvoiceNotice(ctx context.Context, m InvoiceMail) Delivery
	AppointmentReminder(ctx context.Context, m ReminderMail) Delivery
}

// Service renders templates and hands the result to a mailer
type Service struct {
	mailer  mail.Mailer
	baseURL string
	printer *message.Printer
	logger  *zap.Logger
}

var _ Notifier = (*Service)(nil)

// NewService creates a notification service. baseURL is the frontend origin
// used to build verification and reset links.
func NewService(mailer mail.Mailer, baseURL string, logger *zap.Logger) *Service {
	return &Service{
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		printer: message.NewPrinter(language.English),
		logger:  logger,
	}
}

// Welcome sends the registration email with the verification link
func (s *Service) Welcome(ctx context.Context, m WelcomeMail) Delivery {
	data := map[string]any{
		"Name":         m.Name,
		"Organization": m.OrganizationName,
		"VerifyURL":    s.link("/verify-email", m.VerifyToken),
	}
	return s.send(ctx, "welcome", m.To, "Welcome to "+m.OrganizationName, data)
}

// EmailVerification re-sends the verification link
func (s *Service) EmailVerification(ctx context.Context, m VerificationMail) Delivery {
	data := map[string]any{
		"Name":      m.Name,
		"VerifyURL": s.link("/verify-email", m.Token),
	}
	return s.send(ctx, "verification", m.To, "Verify your email address", data)
}

// PasswordReset sends the reset link
func (s *Service) PasswordReset(ctx context.Context, m PasswordResetMail) Delivery {
	data := map[string]any{
		"Name":     m.Name,
		"ResetURL": s.link("/reset-password", m.Token),
		"Validity": humanDuration(m.TTL),
	}
	return s.send(ctx, "password_reset", m.To, "Reset your password", data)
}

// InvoiceNotice sends the invoice summary to the client
func (s *Service) InvoiceNotice(ctx context.Context, m InvoiceMail) Delivery {
	data := map[string]any{
		"ClientName":   m.ClientName,
		"Organization": m.OrganizationName,
		"Number":       m.InvoiceNumber,
		"IssueDate":    m.IssueDate.Format("Jan 2, 2006"),
		"DueDate":      m.DueDate.Format("Jan 2, 2006"),
		"Total":        s.FormatAmount(m.Currency, m.Total),
		"BalanceDue":   s.FormatAmount(m.Currency, m.BalanceDue),
		"PDFURL":       m.PDFURL,
	}
	subject := fmt.Sprintf("Invoice %s from %s", m.InvoiceNumber, m.OrganizationName)
	return s.send(ctx, "invoice", m.To, subject, data)
}

// AppointmentReminder sends an appointment reminder
func (s *Service) AppointmentReminder(ctx context.Context, m ReminderMail) Delivery {
	data := map[string]any{
		"Name":        m.Name,
		"Subject":     m.Subject,
		"When":        m.ScheduledAt.Format("Monday, Jan 2, 2006 at 15:04 MST"),
		"Duration":    m.Duration,
		"Description": m.Description,
	}
	return s.send(ctx, "reminder", m.To, "Reminder: "+m.Subject, data)
}

// FormatAmount renders an amount with thousands grouping and two decimals, e.g. "USD 1,234.50"
func (s *Service) FormatAmount(currency string, amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	formatted := s.printer.Sprint(number.Decimal(f, number.Scale(2)))
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}

func (s *Service) link(path, token string) string {
	return s.baseURL + path + "?token=" + token
}

func (s *Service) send(ctx context.Context, name, to, subject string, data map[string]any) Delivery {
	if strings.TrimSpace(to) == "" {
		return Delivery{Error: "no recipient email address"}
	}
	text, html, err := render(name, data)
	if err != nil {
		s.logger.Error("Failed to render email", zap.String("template", name), zap.Error(err))
		return Failed(err)
	}
	if err := s.mailer.Send(ctx, mail.Message{To: []string{to}, Subject: subject, Text: text, HTML: html}); err != nil {
		s.logger.Warn("Email delivery failed",
			zap.String("template", name),
			zap.String("to", to),
			zap.Error(err))
		return Failed(err)
	}
	s.logger.Debug("Email sent", zap.String("template", name), zap.String("to", to))
	return Delivered()
}

func render(name string, data map[string]any) (string, string, error) {
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name, data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	if err := htmlTemplates.ExecuteTemplate(&html, name, data); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	return text.String(), html.String(), nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return ""
	case d%(24*time.Hour) == 0:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	case d%time.Hour == 0:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
}

var (
	textTemplates = texttemplate.Must(texttemplate.New("text").Parse(textSource))
	htmlTemplates = htmltemplate.Must(htmltemplate.New("html").Parse(htmlSource))
)
