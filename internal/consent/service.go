// internal/consent/service.go

package consent

import (
	"context"
	"errors"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
	"github.com/imadgeboyega/tadhana-backend/internal/notification"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("not a participant of this match")
	ErrMatchInactive  = errors.New("match is no longer active")
)

// ContactLookup resolves a participant's email and participation mode
type ContactLookup interface {
	GetContact(ctx context.Context, userID int64) (*profile.Contact, error)
}

// Service defines the consent service interface
type Service interface {
	SetChatConsent(ctx context.Context, matchID, userID int64, value bool) (*State, error)
	SetRevealConsent(ctx context.Context, matchID, userID int64, value bool) (*State, error)
	GetState(ctx context.Context, matchID, userID int64) (*State, error)
	BothConsented(ctx context.Context, matchID int64, field Field) (bool, error)
}

type service struct {
	repo     Repository
	contacts ContactLookup
	notifier notification.Notifier
	log      *logger.Logger
}

// NewService creates a new consent service
func NewService(repo Repository, contacts ContactLookup, notifier notification.Notifier, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		contacts: contacts,
		notifier: notifier,
		log:      log.With("component", "consent"),
	}
}

func (s *service) SetChatConsent(ctx context.Context, matchID, userID int64, value bool) (*State, error) {
	return s.set(ctx, matchID, userID, FieldChat, value)
}

func (s *service) SetRevealConsent(ctx context.Context, matchID, userID int64, value bool) (*State, error) {
	return s.set(ctx, matchID, userID, FieldReveal, value)
}

func (s *service) set(ctx context.Context, matchID, userID int64, field Field, value bool) (*State, error) {
	p, err := s.participant(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrMatchInactive
	}

	if err := s.repo.Upsert(ctx, matchID, userID, field, value); err != nil {
		return nil, err
	}
	RecordUpdate(field, value)

	pair, err := s.repo.GetPair(ctx, p, field)
	if err != nil {
		return nil, err
	}

	if pair.Both() {
		first, err := s.repo.MarkUnlocked(ctx, matchID, field)
		if err != nil {
			return nil, err
		}
		if first {
			RecordUnlock(field)
			s.log.Info("match unlocked", "match_id", matchID, "field", field)
			if field == FieldReveal {
				s.announceReveal(ctx, p)
			}
		}
	}

	return s.state(ctx, p, userID)
}

// GetState returns the caller's flags and both derived unlocks
func (s *service) GetState(ctx context.Context, matchID, userID int64) (*State, error) {
	p, err := s.participant(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	return s.state(ctx, p, userID)
}

// BothConsented reports whether both participants hold field
func (s *service) BothConsented(ctx context.Context, matchID int64, field Field) (bool, error) {
	p, err := s.repo.GetParticipants(ctx, matchID)
	if err != nil {
		return false, err
	}
	pair, err := s.repo.GetPair(ctx, p, field)
	if err != nil {
		return false, err
	}
	return pair.Both(), nil
}

func (s *service) participant(ctx context.Context, matchID, userID int64) (*Participants, error) {
	p, err := s.repo.GetParticipants(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !p.Has(userID) {
		return nil, ErrNotParticipant
	}
	return p, nil
}

func (s *service) state(ctx context.Context, p *Participants, userID int64) (*State, error) {
	chat, err := s.repo.GetPair(ctx, p, FieldChat)
	if err != nil {
		return nil, err
	}
	reveal, err := s.repo.GetPair(ctx, p, FieldReveal)
	if err != nil {
		return nil, err
	}

	st := &State{
		MatchID:      p.MatchID,
		ChatUnlocked: chat.Both(),
		Revealed:     reveal.Both(),
	}
	if userID == p.User1ID {
		st.ChatConsent, st.RevealConsent = chat.First, reveal.First
	} else {
		st.ChatConsent, st.RevealConsent = chat.Second, reveal.Second
	}
	return st, nil
}

// announceReveal tells each participant how to reach the other, honouring
// the partner's participation mode
func (s *service) announceReveal(ctx context.Context, p *Participants) {
	first, err := s.contacts.GetContact(ctx, p.User1ID)
	if err != nil {
		s.log.Warn("reveal email skipped", "match_id", p.MatchID, "user_id", p.User1ID, "error", err)
		return
	}
	second, err := s.contacts.GetContact(ctx, p.User2ID)
	if err != nil {
		s.log.Warn("reveal email skipped", "match_id", p.MatchID, "user_id", p.User2ID, "error", err)
		return
	}

	s.sendReveal(ctx, first, second)
	s.sendReveal(ctx, second, first)
}

func (s *service) sendReveal(ctx context.Context, to, partner *profile.Contact) {
	data := map[string]interface{}{
		"alias":         to.Alias,
		"partner_email": partner.Email,
	}
	kind := notification.KindRevealAnonymous
	if partner.ParticipationMode == profile.ModeFull {
		kind = notification.KindRevealFull
		data["partner_name"] = partner.FullName
	} else {
		data["partner_alias"] = partner.Alias
	}
	s.notifier.Notify(ctx, kind, to.Email, data)
}
