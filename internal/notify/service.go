package notify

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/eksdesign/stand-platform/internal/contacts"
	"github.com/eksdesign/stand-platform/internal/quotes"
	"github.com/eksdesign/stand-platform/pkg/logging"
)

// Service emails the sales team when a public form is submitted.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a staff notification service. Blank recipients are dropped.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	clean := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, r)
		}
	}
	return &Service{email: email, recipients: clean, logger: logger}
}

// ContactReceived notifies staff of a new contact message.
func (s *Service) ContactReceived(ctx context.Context, msg *contacts.ContactMessage) error {
	if msg == nil {
		return nil
	}
	subject := fmt.Sprintf("New contact message - %s", msg.Name)
	if msg.Subject != nil {
		subject = fmt.Sprintf("New contact message - %s: %s", msg.Name, *msg.Subject)
	}

	rows := []row{
		{"Name", msg.Name},
		{"Email", msg.Email},
		{"Phone", deref(msg.Phone)},
		{"Subject", deref(msg.Subject)},
		{"Message", msg.Message},
	}
	return s.send(ctx, "contact", msg.ID, EmailMessage{
		ReplyTo: msg.Email,
		Subject: subject,
		Body:    textBody("A new contact message has arrived.", rows),
		HTML:    htmlBody("New contact message", rows),
	})
}

// QuoteReceived notifies staff of a new quote request.
func (s *Service) QuoteReceived(ctx context.Context, q *quotes.QuoteRequest, referenceNumber string) error {
	if q == nil {
		return nil
	}
	subject := fmt.Sprintf("New quote request %s - %s", referenceNumber, q.ContactName)

	eventDate := ""
	if q.EventDate != nil {
		eventDate = q.EventDate.Format("2 Jan 2006")
	}
	size := ""
	if q.SizeSqm != nil {
		size = strconv.Itoa(*q.SizeSqm) + " sqm"
	}
	rows := []row{
		{"Reference", referenceNumber},
		{"Contact", q.ContactName},
		{"Email", q.Email},
		{"Company", deref(q.CompanyName)},
		{"Phone", deref(q.Phone)},
		{"Stand type", deref(q.StandType)},
		{"Event", deref(q.EventName)},
		{"Event date", eventDate},
		{"Location", deref(q.Location)},
		{"Size", size},
		{"Budget", deref(q.BudgetRange)},
		{"Message", deref(q.Message)},
	}
	return s.send(ctx, "quote_request", q.ID, EmailMessage{
		ReplyTo:   q.Email,
		Subject:   subject,
		Body:      textBody("A new quote request has arrived.", rows),
		HTML:      htmlBody("New quote request", rows),
		Reference: referenceNumber,
	})
}

func (s *Service) send(ctx context.Context, kind, id string, msg EmailMessage) error {
	if s.email == nil || len(s.recipients) == 0 {
		return nil
	}

	var errs []error
	for _, recipient := range s.recipients {
		out := msg
		out.To = recipient
		out.Kind = kind
		if out.Reference == "" {
			out.Reference = id
		}
		if err := s.email.Send(ctx, out); err != nil {
			s.logger.Error("notify: failed to send email", "error", err, "to", recipient, "kind", kind)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("notify: staff email sent", "to", recipient, "kind", kind, "id", id)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed: %w", len(errs), errs[0])
	}
	return nil
}

type row struct {
	label string
	value string
}

func textBody(intro string, rows []row) string {
	var b strings.Builder
	b.WriteString(intro)
	b.WriteString("\n\n")
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", r.label, r.value)
	}
	b.WriteString("\nReply to this email to respond directly.\n")
	return b.String()
}

func htmlBody(title string, rows []row) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	fmt.Fprintf(&b, `<h2 style="color: #1f2937;">%s</h2>`, html.EscapeString(title))
	b.WriteString(`<table style="border-collapse: collapse; margin: 20px 0;">`)
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(&b,
			`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`,
			html.EscapeString(r.label),
			strings.ReplaceAll(html.EscapeString(r.value), "\n", "<br>"),
		)
	}
	b.WriteString(`</table></div>`)
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	_ contacts.Notifier = (*Service)(nil)
	_ quotes.Notifier   = (*Service)(nil)
)
