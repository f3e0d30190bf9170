// internal/admin/service.go

package admin

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
	"github.com/imadgeboyega/tadhana-backend/internal/matching"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

const statsCacheKey = "tadhana:admin:stats"

// Service defines the admin console operations
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context, status profile.UserStatus) ([]*profile.Registrant, error)
	SetPaymentStatus(ctx context.Context, userID int64, status profile.PaymentStatus) error
	Suggestions(ctx context.Context, userID int64, limit int) ([]*matching.Suggestion, error)
	Score(ctx context.Context, user1ID, user2ID int64) (*matching.Result, error)
	CreateMatch(ctx context.Context, user1ID, user2ID int64) (*matching.Match, error)
	RunBatch(ctx context.Context) (*matching.RunReport, error)
	Recalibrate(ctx context.Context, userID int64) (*matching.Match, error)
	ListMatches(ctx context.Context, activeOnly bool) ([]*matching.MatchListing, error)
}

type service struct {
	repo     Repository
	profiles profile.Service
	matching matching.Service
	cache    *redis.Client
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService creates the admin service. cache may be nil.
func NewService(
	repo Repository,
	profiles profile.Service,
	matchingService matching.Service,
	cache *redis.Client,
	cacheTTL time.Duration,
	log *logger.Logger,
) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
		matching: matchingService,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log.With("component", "admin"),
	}
}

// Stats serves the dashboard, from Redis when a fresh copy exists
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil && s.cacheTTL > 0 {
		if raw, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var cached Stats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			s.log.Warn("stats cache read failed", "error", err)
		}
	}

	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn("stats cache write failed", "error", err)
			}
		}
	}
	return stats, nil
}

func (s *service) ListUsers(ctx context.Context, status profile.UserStatus) ([]*profile.Registrant, error) {
	return s.profiles.ListRegistrants(ctx, status)
}

func (s *service) SetPaymentStatus(ctx context.Context, userID int64, status profile.PaymentStatus) error {
	if err := s.profiles.SetPaymentStatus(ctx, userID, status); err != nil {
		return err
	}
	s.log.Info("payment reviewed", "user_id", userID, "status", status)
	s.invalidate(ctx)
	return nil
}

func (s *service) Suggestions(ctx context.Context, userID int64, limit int) ([]*matching.Suggestion, error) {
	return s.matching.Suggestions(ctx, userID, limit)
}

func (s *service) Score(ctx context.Context, user1ID, user2ID int64) (*matching.Result, error) {
	return s.matching.ScoreUsers(ctx, user1ID, user2ID)
}

func (s *service) CreateMatch(ctx context.Context, user1ID, user2ID int64) (*matching.Match, error) {
	match, err := s.matching.CreateManualMatch(ctx, user1ID, user2ID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return match, nil
}

func (s *service) RunBatch(ctx context.Context) (*matching.RunReport, error) {
	report, err := s.matching.RunBatchMatch(ctx)
	if report != nil {
		s.invalidate(ctx)
	}
	return report, err
}

// Recalibrate returns a user and their partner to the pool
func (s *service) Recalibrate(ctx context.Context, userID int64) (*matching.Match, error) {
	match, err := s.matching.Rematch(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return match, nil
}

func (s *service) ListMatches(ctx context.Context, activeOnly bool) ([]*matching.MatchListing, error) {
	return s.matching.ListMatches(ctx, activeOnly)
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		s.log.Warn("stats cache invalidation failed", "error", err)
	}
}
