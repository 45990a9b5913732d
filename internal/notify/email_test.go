package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSendGrid struct {
	mail   *mail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.mail = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "{}"}, nil
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func staffEmail() EmailMessage {
	return EmailMessage{
		To:        "sales@example.com",
		ReplyTo:   "ali@example.com",
		Subject:   "New quote request EKS-567890 - Ali",
		Body:      "text",
		HTML:      "<p>html</p>",
		Kind:      "quote_request",
		Reference: "EKS-567890",
	}
}

func TestNewSendGridSender(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{FromEmail: "hello@example.com"}, nil))

	sender := NewSendGridSender(SendGridConfig{APIKey: "key", FromEmail: "hello@example.com"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, defaultFromName, sender.from.name)

	sender = NewSendGridSender(SendGridConfig{APIKey: "key", FromEmail: "hello@example.com", FromName: "Fuar Ekibi"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Fuar Ekibi <hello@example.com>", sender.from.String())
}

func TestSendGridSender_Send(t *testing.T) {
	client := &fakeSendGrid{status: 202}
	sender := &SendGridSender{client: client, from: newFromAddress("hello@example.com", ""), logger: logging.Default()}

	require.NoError(t, sender.Send(context.Background(), staffEmail()))

	m := client.mail
	require.NotNil(t, m)
	assert.Equal(t, "hello@example.com", m.From.Address)
	assert.Equal(t, defaultFromName, m.From.Name)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "sales@example.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "EKS-567890", m.Personalizations[0].CustomArgs["reference"])
	assert.Equal(t, "ali@example.com", m.ReplyTo.Address)
	assert.Equal(t, []string{"quote_request"}, m.Categories)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "<p>html</p>", m.Content[1].Value)
}

func TestSendGridSender_SendFailures(t *testing.T) {
	logger := logging.Default()

	rejected := &SendGridSender{client: &fakeSendGrid{status: 401}, from: newFromAddress("hello@example.com", ""), logger: logger}
	assert.ErrorContains(t, rejected.Send(context.Background(), staffEmail()), "status 401")

	transport := &fakeSendGrid{err: errors.New("dial tcp: timeout")}
	broken := &SendGridSender{client: transport, from: newFromAddress("hello@example.com", ""), logger: logger}
	assert.ErrorIs(t, broken.Send(context.Background(), staffEmail()), transport.err)

	unconfigured := &SendGridSender{}
	assert.Error(t, unconfigured.Send(context.Background(), staffEmail()))
}

func TestSenders_RejectIncompleteMessages(t *testing.T) {
	sg := &fakeSendGrid{status: 202}
	ses := &fakeSES{}
	logger := logging.Default()
	senders := []EmailSender{
		&SendGridSender{client: sg, from: newFromAddress("hello@example.com", ""), logger: logger},
		NewSESSender(ses, SESConfig{FromEmail: "hello@example.com"}, nil),
		NewStubEmailSender(nil),
	}

	for _, s := range senders {
		assert.ErrorIs(t, s.Send(context.Background(), EmailMessage{Subject: "no recipient"}), ErrInvalidEmail)
		assert.ErrorIs(t, s.Send(context.Background(), EmailMessage{To: "sales@example.com", Subject: "  "}), ErrInvalidEmail)
	}
	assert.Nil(t, sg.mail)
	assert.Nil(t, ses.input)
}

func TestStubEmailSender_RecordsMessages(t *testing.T) {
	stub := NewStubEmailSender(nil)
	require.NoError(t, stub.Send(context.Background(), staffEmail()))

	sent := stub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "sales@example.com", sent[0].To)

	sent[0].To = "changed"
	assert.Equal(t, "sales@example.com", stub.Sent()[0].To)
}

func TestNewSESSender_NilWithoutClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{FromEmail: "hello@example.com"}, nil))
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, SESConfig{FromEmail: "hello@example.com"}, nil)

	require.NoError(t, sender.Send(context.Background(), staffEmail()))

	in := client.input
	assert.Equal(t, "EKS Stand Design <hello@example.com>", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"sales@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, []string{"ali@example.com"}, in.ReplyToAddresses)
	body := in.Content.Simple.Body
	assert.Equal(t, "text", aws.ToString(body.Text.Data))
	assert.Equal(t, "<p>html</p>", aws.ToString(body.Html.Data))
	require.Len(t, in.EmailTags, 2)
	assert.Equal(t, "kind", aws.ToString(in.EmailTags[0].Name))
	assert.Equal(t, "EKS-567890", aws.ToString(in.EmailTags[1].Value))
}

func TestSESSender_TextOnlyGetsHTMLPart(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, SESConfig{FromEmail: "hello@example.com"}, nil)

	require.NoError(t, sender.Send(context.Background(), EmailMessage{To: "sales@example.com", Subject: "s", Body: "plain"}))

	body := client.input.Content.Simple.Body
	assert.Equal(t, "plain", aws.ToString(body.Html.Data))
	assert.Empty(t, client.input.EmailTags)
}

func TestSESSender_SendWrapsError(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	sender := NewSESSender(client, SESConfig{FromEmail: "hello@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "sales@example.com", Subject: "s", Body: "b"})
	assert.ErrorIs(t, err, client.err)
}
