package notify

import (
	"context"
	"fmt"

	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendGridAPI is satisfied by *sendgrid.Client.
type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridConfig holds the API key and sender identity.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender delivers staff email through the SendGrid v3 API.
type SendGridSender struct {
	client sendGridAPI
	from   fromAddress
	logger *logging.Logger
}

// NewSendGridSender returns nil without an API key so callers can fall back.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   newFromAddress(cfg.FromEmail, cfg.FromName),
		logger: logger,
	}
}

// Send posts one message. Any 4xx/5xx from SendGrid is an error.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}
	if err := msg.validate(); err != nil {
		return err
	}

	resp, err := s.client.SendWithContext(ctx, s.build(msg))
	if err != nil {
		s.logger.Error("sendgrid request failed", "error", err, "to", msg.To, "kind", msg.Kind)
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected email", "status", resp.StatusCode, "body", resp.Body, "to", msg.To, "kind", msg.Kind)
		return fmt.Errorf("notify: sendgrid status %d", resp.StatusCode)
	}

	s.logger.Info("email sent", "provider", "sendgrid", "to", msg.To, "kind", msg.Kind, "reference", msg.Reference, "status", resp.StatusCode)
	return nil
}

func (s *SendGridSender) build(msg EmailMessage) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.from.name, s.from.email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))
	if msg.Reference != "" {
		p.SetCustomArg("reference", msg.Reference)
	}
	m.AddPersonalizations(p)

	if msg.Body != "" {
		m.AddContent(mail.NewContent("text/plain", msg.Body))
	}
	m.AddContent(mail.NewContent("text/html", msg.htmlOrText()))

	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}
	if msg.Kind != "" {
		m.AddCategories(msg.Kind)
	}
	return m
}

var _ EmailSender = (*SendGridSender)(nil)
