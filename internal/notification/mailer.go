// internal/notification/mailer.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
)

var ErrNoTransport = errors.New("no email transport configured")

// Mailer tries each transport in order until one accepts the email
type Mailer struct {
	transports []Transport
	log        *logger.Logger
}

// NewMailer creates a mailer over the given transports
func NewMailer(log *logger.Logger, transports ...Transport) *Mailer {
	return &Mailer{transports: transports, log: log.With("component", "mailer")}
}

// Send delivers the email, returning an error only when every transport failed
func (m *Mailer) Send(ctx context.Context, email *Email) error {
	if len(m.transports) == 0 {
		return ErrNoTransport
	}

	var errs []error
	for _, t := range m.transports {
		start := time.Now()
		err := t.Send(ctx, email)
		recordSend(t.Name(), err, time.Since(start))
		if err == nil {
			return nil
		}

		m.log.Warn("email transport failed", "transport", t.Name(), "to", email.To, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("all email transports failed: %w", errors.Join(errs...))
}

// SendKind renders a canned email and sends it, returning delivery errors
func (m *Mailer) SendKind(ctx context.Context, kind Kind, to string, data map[string]interface{}) error {
	email, err := Render(kind, to, data)
	if err != nil {
		return err
	}
	return m.Send(ctx, email)
}

// maxInFlight bounds concurrent sends across all callers
const maxInFlight = 8

// Service is the best-effort Notifier used by matching, consent and chat
type Service struct {
	mailer  *Mailer
	timeout time.Duration
	log     *logger.Logger
	slots   chan struct{}
	wg      sync.WaitGroup
}

// NewService wraps a mailer; each notification gets its own timeout
func NewService(mailer *Mailer, timeout time.Duration, log *logger.Logger) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{
		mailer:  mailer,
		timeout: timeout,
		log:     log.With("component", "notifier"),
		slots:   make(chan struct{}, maxInFlight),
	}
}

// Notify queues a canned email and returns immediately. It never fails the caller.
func (s *Service) Notify(ctx context.Context, kind Kind, to string, data map[string]interface{}) {
	// Detached from the request: the primary write has already committed
	detached := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.slots <- struct{}{}
		defer func() { <-s.slots }()
		s.send(detached, kind, to, data)
	}()
}

// Wait blocks until every queued notification has been attempted
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) send(ctx context.Context, kind Kind, to string, data map[string]interface{}) {
	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.mailer.SendKind(sendCtx, kind, to, data); err != nil {
		notificationsDropped.WithLabelValues(string(kind)).Inc()
		s.log.Warn("notification dropped", "kind", kind, "to", to, "error", err)
		return
	}
	s.log.Debug("notification sent", "kind", kind, "to", to)
}
