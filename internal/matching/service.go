// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
	"github.com/imadgeboyega/tadhana-backend/internal/notification"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrMatchNotFound           = errors.New("match not found")
	ErrNoActiveMatch           = errors.New("no active match")
	ErrPairConflict            = errors.New("one of the users is no longer waiting")
	ErrBatchInProgress         = errors.New("a batch match is already running")
	ErrOrientationIncompatible = errors.New("orientations are not compatible")
	ErrSameUser                = errors.New("cannot match a user with themselves")
)

const batchLockKey = "tadhana:batch-match"

// ContactLookup resolves how a user may be contacted
type ContactLookup interface {
	GetContact(ctx context.Context, userID int64) (*profile.Contact, error)
}

// Config holds matching service settings
type Config struct {
	Gates            BatchGates
	LockTTL          time.Duration
	MessageLimit     int
	SuggestionsLimit int
}

// Service defines the matching service interface
type Service interface {
	ScoreUsers(ctx context.Context, viewerID, candidateID int64) (*Result, error)
	RunBatchMatch(ctx context.Context) (*RunReport, error)
	GetActiveMatchForUser(ctx context.Context, userID int64) (*MatchSummary, error)
	Suggestions(ctx context.Context, userID int64, limit int) ([]*Suggestion, error)
	CreateManualMatch(ctx context.Context, user1ID, user2ID int64) (*Match, error)
	Rematch(ctx context.Context, userID int64) (*Match, error)
	ListMatches(ctx context.Context, activeOnly bool) ([]*MatchListing, error)
}

type service struct {
	repo     Repository
	scorer   *Scorer
	locker   Locker
	contacts ContactLookup
	notifier notification.Notifier
	config   Config
	log      *logger.Logger
}

// NewService creates a new matching service
func NewService(
	repo Repository,
	scorer *Scorer,
	locker Locker,
	contacts ContactLookup,
	notifier notification.Notifier,
	config Config,
	log *logger.Logger,
) Service {
	if config.LockTTL <= 0 {
		config.LockTTL = 10 * time.Minute
	}
	if config.SuggestionsLimit <= 0 {
		config.SuggestionsLimit = 10
	}
	return &service{
		repo:     repo,
		scorer:   scorer,
		locker:   locker,
		contacts: contacts,
		notifier: notifier,
		config:   config,
		log:      log.With("component", "matching"),
	}
}

// ScoreUsers scores candidateID as seen by viewerID
func (s *service) ScoreUsers(ctx context.Context, viewerID, candidateID int64) (*Result, error) {
	if viewerID == candidateID {
		return nil, ErrSameUser
	}
	viewer, err := s.repo.GetCandidate(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	candidate, err := s.repo.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	res := s.scorer.Score(viewer.ID, viewer.Profile, candidate.Profile)
	return &res, nil
}

// RunBatchMatch greedily pairs the waiting pool. Each pair commits on its
// own; a conflicting pair is skipped, any other error stops the run.
func (s *service) RunBatchMatch(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{}

	release, err := s.locker.Acquire(ctx, batchLockKey, s.config.LockTTL)
	if err != nil {
		if errors.Is(err, ErrLockHeld) {
			RecordBatchRun("busy", time.Since(start))
			return nil, ErrBatchInProgress
		}
		return nil, err
	}
	defer release()

	candidates, err := s.repo.ListWaitingCandidates(ctx)
	if err != nil {
		RecordBatchRun("failed", time.Since(start))
		return nil, err
	}
	report.Considered = len(candidates)

	consumed := make([]bool, len(candidates))
	for i, u := range candidates {
		if consumed[i] {
			continue
		}
		consumed[i] = true

		j, res := bestPartner(s.scorer, s.config.Gates, candidates, consumed, i)
		if j < 0 {
			continue
		}
		v := candidates[j]

		match, err := s.repo.CreatePairing(ctx, &Pairing{
			User1ID: u.ID,
			User2ID: v.ID,
			Score:   res.Score,
			Reasons: res.Reasons,
			Source:  SourceBatch,
		})
		if errors.Is(err, ErrPairConflict) {
			report.Conflicts++
			RecordPairConflict()
			s.log.Warn("pair skipped, user no longer waiting", "user1_id", u.ID, "user2_id", v.ID)
			continue
		}
		if err != nil {
			report.Duration = time.Since(start)
			RecordBatchRun("failed", report.Duration)
			return report, fmt.Errorf("batch stopped after %d matches: %w", report.Matched, err)
		}

		consumed[j] = true
		report.Matched++
		RecordMatch(SourceBatch, match.Score)
		s.announce(ctx, match, u, v)
	}

	report.Duration = time.Since(start)
	RecordBatchRun("ok", report.Duration)
	s.log.Info("batch match finished",
		"matched", report.Matched,
		"considered", report.Considered,
		"conflicts", report.Conflicts,
		"duration", report.Duration)
	return report, nil
}

// GetActiveMatchForUser summarizes the user's newest active match
func (s *service) GetActiveMatchForUser(ctx context.Context, userID int64) (*MatchSummary, error) {
	match, err := s.repo.GetActiveMatchForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	flags, err := s.repo.GetFlags(ctx, match.ID, userID)
	if err != nil {
		return nil, err
	}

	partner, err := s.contacts.GetContact(ctx, match.PartnerOf(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load partner: %w", err)
	}

	summary := &MatchSummary{
		MatchID:           match.ID,
		PartnerAlias:      partner.Alias,
		Score:             match.Score,
		Reasons:           []string(match.Reasons),
		ChatUnlocked:      flags.ChatUnlocked,
		Revealed:          flags.Revealed,
		MessagesRemaining: max(s.config.MessageLimit-flags.MessagesSent, 0),
		CreatedAt:         match.CreatedAt,
	}
	if flags.Revealed {
		summary.Partner = contactFor(partner)
	}
	return summary, nil
}

// Suggestions ranks the waiting pool from userID's side, dropping rejected pairs
func (s *service) Suggestions(ctx context.Context, userID int64, limit int) ([]*Suggestion, error) {
	if limit <= 0 {
		limit = s.config.SuggestionsLimit
	}

	viewer, err := s.repo.GetCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	pool, err := s.repo.ListWaitingCandidates(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]*Suggestion, 0, len(pool))
	for _, c := range pool {
		if c.ID == viewer.ID {
			continue
		}
		res := s.scorer.Score(viewer.ID, viewer.Profile, c.Profile)
		if res.Rejected {
			continue
		}
		suggestions = append(suggestions, &Suggestion{UserID: c.ID, Alias: c.Alias, Result: res})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Result.Score > suggestions[j].Result.Score
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// CreateManualMatch pairs two waiting users chosen by an admin. Batch gates
// do not apply; the orientation veto does.
func (s *service) CreateManualMatch(ctx context.Context, user1ID, user2ID int64) (*Match, error) {
	if user1ID == user2ID {
		return nil, ErrSameUser
	}
	u, err := s.repo.GetCandidate(ctx, user1ID)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.GetCandidate(ctx, user2ID)
	if err != nil {
		return nil, err
	}

	res := s.scorer.Score(u.ID, u.Profile, v.Profile)
	if res.Rejected {
		return nil, ErrOrientationIncompatible
	}

	match, err := s.repo.CreatePairing(ctx, &Pairing{
		User1ID: u.ID,
		User2ID: v.ID,
		Score:   res.Score,
		Reasons: res.Reasons,
		Source:  SourceAdmin,
	})
	if err != nil {
		return nil, err
	}

	RecordMatch(SourceAdmin, match.Score)
	s.log.Info("manual match created", "match_id", match.ID, "user1_id", u.ID, "user2_id", v.ID, "score", match.Score)
	s.announce(ctx, match, u, v)
	return match, nil
}

// Rematch retires the user's active match and returns both users to the pool
func (s *service) Rematch(ctx context.Context, userID int64) (*Match, error) {
	match, err := s.repo.DeactivateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("match deactivated", "match_id", match.ID, "requested_by", userID)
	return match, nil
}

func (s *service) ListMatches(ctx context.Context, activeOnly bool) ([]*MatchListing, error) {
	return s.repo.ListMatches(ctx, activeOnly)
}

// announce emails both participants; failures are logged by the notifier
func (s *service) announce(ctx context.Context, match *Match, u, v *Candidate) {
	for _, c := range []*Candidate{u, v} {
		s.notifier.Notify(ctx, notification.KindMatchFound, c.Email, map[string]interface{}{
			"alias":   c.Alias,
			"score":   match.Score,
			"reasons": []string(match.Reasons),
		})
	}
}
