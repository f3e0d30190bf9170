// internal/chat/service.go

package chat

import (
	"context"
	"errors"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
	"github.com/imadgeboyega/tadhana-backend/internal/consent"
	"github.com/imadgeboyega/tadhana-backend/internal/notification"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

var (
	ErrMessageTooLong = errors.New("message exceeds max length")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrProfanity      = errors.New("message contains inappropriate language")
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotInMatch     = errors.New("not in match")
	ErrMatchInactive  = errors.New("match is no longer active")
	ErrChatLocked     = errors.New("chat locked until both of you consent")
	ErrLimitReached   = errors.New("message limit reached")
)

// ConsentChecker answers whether both participants agreed to chat
type ConsentChecker interface {
	BothConsented(ctx context.Context, matchID int64, field consent.Field) (bool, error)
}

// ContactLookup resolves a participant's email and alias
type ContactLookup interface {
	GetContact(ctx context.Context, userID int64) (*profile.Contact, error)
}

// Config holds chat limits
type Config struct {
	MaxLength    int
	MessageLimit int
	Denylist     []string
}

// Service defines the chat service interface
type Service interface {
	TrySendMessage(ctx context.Context, matchID, senderID int64, text string) (*SendResult, error)
	ListMessages(ctx context.Context, matchID, viewerID int64) ([]*Message, error)
}

type service struct {
	repo     Repository
	gate     *Gate
	consents ConsentChecker
	contacts ContactLookup
	notifier notification.Notifier
	config   Config
	log      *logger.Logger
}

// NewService creates a new chat service
func NewService(
	repo Repository,
	consents ConsentChecker,
	contacts ContactLookup,
	notifier notification.Notifier,
	config Config,
	log *logger.Logger,
) Service {
	if config.Denylist == nil {
		config.Denylist = DefaultDenylist
	}
	return &service{
		repo:     repo,
		gate:     NewGate(config.MaxLength, config.Denylist),
		consents: consents,
		contacts: contacts,
		notifier: notifier,
		config:   config,
		log:      log.With("component", "chat"),
	}
}

// TrySendMessage runs the gate checks in order and stores the message.
// The first failing check is returned and nothing is written.
func (s *service) TrySendMessage(ctx context.Context, matchID, senderID int64, text string) (*SendResult, error) {
	if err := s.gate.Check(text); err != nil {
		return nil, s.reject(err)
	}

	thread, err := s.repo.GetThread(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, s.reject(err)
		}
		return nil, err
	}
	if !thread.Has(senderID) {
		return nil, s.reject(ErrNotInMatch)
	}
	if !thread.Active {
		return nil, s.reject(ErrMatchInactive)
	}

	unlocked, err := s.consents.BothConsented(ctx, matchID, consent.FieldChat)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, s.reject(ErrChatLocked)
	}

	msg, sent, err := s.repo.AppendMessage(ctx, matchID, senderID, text, s.config.MessageLimit)
	if err != nil {
		if errors.Is(err, ErrLimitReached) {
			return nil, s.reject(err)
		}
		return nil, err
	}
	RecordSent()

	if sent == 1 {
		s.notifyFirstMessage(ctx, thread, senderID)
	}

	return &SendResult{
		Message:   msg,
		Remaining: max(s.config.MessageLimit-sent, 0),
	}, nil
}

// ListMessages returns the thread oldest first; only participants may read it
func (s *service) ListMessages(ctx context.Context, matchID, viewerID int64) ([]*Message, error) {
	thread, err := s.repo.GetThread(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !thread.Has(viewerID) {
		return nil, ErrNotInMatch
	}
	return s.repo.ListMessages(ctx, matchID)
}

func (s *service) reject(err error) error {
	RecordRejected(reasonLabel(err))
	return err
}

func (s *service) notifyFirstMessage(ctx context.Context, thread *Thread, senderID int64) {
	sender, err := s.contacts.GetContact(ctx, senderID)
	if err != nil {
		s.log.Warn("first message email skipped", "match_id", thread.MatchID, "user_id", senderID, "error", err)
		return
	}
	partner, err := s.contacts.GetContact(ctx, thread.PartnerOf(senderID))
	if err != nil {
		s.log.Warn("first message email skipped", "match_id", thread.MatchID, "error", err)
		return
	}

	s.notifier.Notify(ctx, notification.KindFirstMessage, partner.Email, map[string]interface{}{
		"alias":         partner.Alias,
		"partner_alias": sender.Alias,
	})
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, ErrMessageTooLong):
		return "too_long"
	case errors.Is(err, ErrEmptyMessage):
		return "empty"
	case errors.Is(err, ErrProfanity):
		return "profanity"
	case errors.Is(err, ErrMatchNotFound):
		return "not_found"
	case errors.Is(err, ErrNotInMatch):
		return "not_in_match"
	case errors.Is(err, ErrMatchInactive):
		return "inactive"
	case errors.Is(err, ErrChatLocked):
		return "locked"
	case errors.Is(err, ErrLimitReached):
		return "limit"
	default:
		return "other"
	}
}
