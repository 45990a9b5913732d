package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/eksdesign/stand-platform/pkg/logging"
)

// SESAPI is the part of the SES v2 client this package calls.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig holds the verified sender identity.
type SESConfig struct {
	FromEmail string
	FromName  string
}

// SESSender delivers staff email through Amazon SES.
type SESSender struct {
	client SESAPI
	from   fromAddress
	logger *logging.Logger
}

// NewSESSender returns nil when no client is available.
func NewSESSender(client SESAPI, cfg SESConfig, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SESSender{client: client, from: newFromAddress(cfg.FromEmail, cfg.FromName), logger: logger}
}

// Send delivers one message as a simple SES email.
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: SES client not configured")
	}
	if err := msg.validate(); err != nil {
		return err
	}

	out, err := s.client.SendEmail(ctx, s.input(msg))
	if err != nil {
		s.logger.Error("ses send failed", "error", err, "to", msg.To, "kind", msg.Kind)
		return fmt.Errorf("notify: ses send: %w", err)
	}

	s.logger.Info("email sent", "provider", "ses", "to", msg.To, "kind", msg.Kind, "reference", msg.Reference, "message_id", aws.ToString(out.MessageId))
	return nil
}

func (s *SESSender) input(msg EmailMessage) *sesv2.SendEmailInput {
	body := &types.Body{Html: utf8(msg.htmlOrText())}
	if msg.Body != "" {
		body.Text = utf8(msg.Body)
	}

	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from.String()),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{Subject: utf8(msg.Subject), Body: body},
		},
	}
	if msg.ReplyTo != "" {
		in.ReplyToAddresses = []string{msg.ReplyTo}
	}
	// SES tag values allow only alphanumerics, '_', '-', '.' and '@'.
	if msg.Kind != "" {
		in.EmailTags = append(in.EmailTags, types.MessageTag{Name: aws.String("kind"), Value: aws.String(msg.Kind)})
	}
	if msg.Reference != "" {
		in.EmailTags = append(in.EmailTags, types.MessageTag{Name: aws.String("reference"), Value: aws.String(msg.Reference)})
	}
	return in
}

func utf8(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

var _ EmailSender = (*SESSender)(nil)
