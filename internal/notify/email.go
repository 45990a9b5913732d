package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/eksdesign/stand-platform/pkg/logging"
)

const defaultFromName = "EKS Stand Design"

// ErrInvalidEmail is returned before any provider call when a message lacks
// a recipient or subject.
var ErrInvalidEmail = errors.New("notify: email needs a recipient and a subject")

// EmailSender delivers a single staff email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one outbound email. Kind and Reference travel to the
// provider as tags so deliveries can be traced back to a submission.
type EmailMessage struct {
	To        string
	ToName    string
	ReplyTo   string
	Subject   string
	Body      string
	HTML      string
	Kind      string
	Reference string
}

func (m EmailMessage) validate() error {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" {
		return ErrInvalidEmail
	}
	return nil
}

// htmlOrText falls back to the plain body so providers always get an HTML part.
func (m EmailMessage) htmlOrText() string {
	if m.HTML != "" {
		return m.HTML
	}
	return m.Body
}

// sender identity shared by every provider.
type fromAddress struct {
	email string
	name  string
}

func newFromAddress(email, name string) fromAddress {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultFromName
	}
	return fromAddress{email: strings.TrimSpace(email), name: name}
}

func (f fromAddress) String() string {
	return fmt.Sprintf("%s <%s>", f.name, f.email)
}

// StubEmailSender logs instead of sending. It keeps what it was given so
// local runs and tests can inspect outbound mail.
type StubEmailSender struct {
	logger *logging.Logger

	mu   sync.Mutex
	sent []EmailMessage
}

// NewStubEmailSender is used when no provider is configured.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send records the message.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.logger.Info("email not sent, no provider configured", "to", msg.To, "subject", msg.Subject, "kind", msg.Kind)
	return nil
}

// Sent returns a copy of every recorded message.
func (s *StubEmailSender) Sent() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EmailMessage(nil), s.sent...)
}

var _ EmailSender = (*StubEmailSender)(nil)
