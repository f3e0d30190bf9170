// internal/notification/transports.go

package notification

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"gopkg.in/gomail.v2"
)

// GmailTransport sends through the Gmail API with an OAuth2 refresh token
type GmailTransport struct {
	service  *gmail.Service
	from     string
	fromName string
}

// NewGmailTransport exchanges the refresh token lazily on first send
func NewGmailTransport(ctx context.Context, clientID, clientSecret, refreshToken, from, fromName string) (*GmailTransport, error) {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	tokenSource := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailTransport{service: svc, from: from, fromName: fromName}, nil
}

func (t *GmailTransport) Name() string { return "gmail" }

func (t *GmailTransport) Send(ctx context.Context, email *Email) error {
	raw := base64.URLEncoding.EncodeToString(buildMIME(t.fromName, t.from, email))

	_, err := t.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send failed: %w", err)
	}
	return nil
}

// buildMIME renders a minimal RFC 5322 message
func buildMIME(fromName, from string, email *Email) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), from)
	fmt.Fprintf(&b, "To: %s\r\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	if email.HTML != "" {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(email.HTML)
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(email.Body)
	}
	return []byte(b.String())
}

// SendGridTransport sends through the SendGrid v3 API
type SendGridTransport struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridTransport(apiKey, from, fromName string) *SendGridTransport {
	return &SendGridTransport{client: sendgrid.NewSendClient(apiKey), from: from, fromName: fromName}
}

func (t *SendGridTransport) Name() string { return "sendgrid" }

func (t *SendGridTransport) Send(ctx context.Context, email *Email) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(t.fromName, t.from),
		email.Subject,
		mail.NewEmail("", email.To),
		email.Body,
		email.HTML,
	)

	response, err := t.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}
	return nil
}

// SMTPTransport sends through an SMTP relay
type SMTPTransport struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPTransport(host string, port int, username, password, from, fromName string) *SMTPTransport {
	dialer := gomail.NewDialer(host, port, username, password)
	dialer.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	return &SMTPTransport{dialer: dialer, from: from, fromName: fromName}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(t.from, t.fromName))
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	if email.HTML != "" {
		m.SetBody("text/html", email.HTML)
		m.AddAlternative("text/plain", email.Body)
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// MockTransport records emails instead of sending them
type MockTransport struct {
	mu   sync.Mutex
	Sent []Email
	Fail error
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (t *MockTransport) Name() string { return "mock" }

func (t *MockTransport) Send(ctx context.Context, email *Email) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Fail != nil {
		return t.Fail
	}
	t.Sent = append(t.Sent, *email)
	return nil
}

// Messages returns a copy of everything sent so far
func (t *MockTransport) Messages() []Email {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Email(nil), t.Sent...)
}
