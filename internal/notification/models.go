// internal/notification/models.go

package notification

import "context"

// Kind identifies a canned email
type Kind string

const (
	KindOTP             Kind = "otp"
	KindMatchFound      Kind = "match_found"
	KindFirstMessage    Kind = "first_message"
	KindRevealFull      Kind = "reveal_full"
	KindRevealAnonymous Kind = "reveal_anonymous"
)

// Email is a rendered message ready for a transport
type Email struct {
	To      string
	Subject string
	Body    string // plain text
	HTML    string // optional
}

// Transport delivers an email through one provider
type Transport interface {
	Name() string
	Send(ctx context.Context, email *Email) error
}

// Notifier is the best-effort side of email: failures are logged, never returned
type Notifier interface {
	Notify(ctx context.Context, kind Kind, to string, data map[string]interface{})
}
