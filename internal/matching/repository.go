// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/imadgeboyega/tadhana-backend/internal/common/database"
)

// Repository defines the matching data access interface
type Repository interface {
	ListWaitingCandidates(ctx context.Context) ([]*Candidate, error)
	GetCandidate(ctx context.Context, userID int64) (*Candidate, error)
	CreatePairing(ctx context.Context, p *Pairing) (*Match, error)
	GetMatch(ctx context.Context, matchID int64) (*Match, error)
	GetActiveMatchForUser(ctx context.Context, userID int64) (*Match, error)
	GetFlags(ctx context.Context, matchID, userID int64) (*MatchFlags, error)
	DeactivateForUser(ctx context.Context, userID int64) (*Match, error)
	ListMatches(ctx context.Context, activeOnly bool) ([]*MatchListing, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const candidateQuery = `
	SELECT u.id, u.email, u.alias, u.status, u.created_at, p.profile
	FROM users u
	JOIN user_profiles p ON p.user_id = u.id`

const matchColumns = `id, user1_id, user2_id, compatibility_score, reasons, source, active,
	chat_unlocked_at, revealed_at, created_at, deactivated_at`

// ListWaitingCandidates returns the pool in a stable order so "first found" is reproducible
func (r *postgresRepository) ListWaitingCandidates(ctx context.Context) ([]*Candidate, error) {
	var candidates []*Candidate
	query := candidateQuery + ` WHERE u.status = 'waiting' ORDER BY u.created_at, u.id`

	if err := r.db.SelectContext(ctx, &candidates, query); err != nil {
		return nil, fmt.Errorf("failed to list waiting users: %w", err)
	}
	return candidates, nil
}

func (r *postgresRepository) GetCandidate(ctx context.Context, userID int64) (*Candidate, error) {
	var c Candidate
	err := r.db.GetContext(ctx, &c, candidateQuery+` WHERE u.id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &c, nil
}

// CreatePairing writes a match and its side rows in one transaction. Both
// users must still be waiting, otherwise ErrPairConflict and nothing is written.
func (r *postgresRepository) CreatePairing(ctx context.Context, p *Pairing) (*Match, error) {
	var match Match

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET status = 'matched', updated_at = NOW()
			 WHERE id IN ($1, $2) AND status = 'waiting'`,
			p.User1ID, p.User2ID)
		if err != nil {
			return fmt.Errorf("failed to claim users: %w", err)
		}
		claimed, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if claimed != 2 {
			return ErrPairConflict
		}

		err = tx.GetContext(ctx, &match,
			`INSERT INTO matches (user1_id, user2_id, compatibility_score, reasons, source)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING `+matchColumns,
			p.User1ID, p.User2ID, p.Score, pq.StringArray(p.Reasons), p.Source)
		if err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chat_limits (match_id, user_id, messages_sent) VALUES ($1, $2, 0), ($1, $3, 0)`,
			match.ID, p.User1ID, p.User2ID); err != nil {
			return fmt.Errorf("failed to seed chat limits: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO consents (match_id, user_id) VALUES ($1, $2), ($1, $3)`,
			match.ID, p.User1ID, p.User2ID); err != nil {
			return fmt.Errorf("failed to seed consents: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &match, nil
}

func (r *postgresRepository) GetMatch(ctx context.Context, matchID int64) (*Match, error) {
	var m Match
	err := r.db.GetContext(ctx, &m, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &m, nil
}

// GetActiveMatchForUser returns the newest active match
func (r *postgresRepository) GetActiveMatchForUser(ctx context.Context, userID int64) (*Match, error) {
	var m Match
	err := r.db.GetContext(ctx, &m,
		`SELECT `+matchColumns+` FROM matches
		 WHERE active = TRUE AND (user1_id = $1 OR user2_id = $1)
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveMatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active match: %w", err)
	}
	return &m, nil
}

// GetFlags reads both consent slots of the match and userID's quota usage
func (r *postgresRepository) GetFlags(ctx context.Context, matchID, userID int64) (*MatchFlags, error) {
	var flags MatchFlags
	err := r.db.GetContext(ctx, &flags, `
		SELECT
			COALESCE(c1.consent_chat AND c2.consent_chat, FALSE) AS chat_unlocked,
			COALESCE(c1.consent_reveal AND c2.consent_reveal, FALSE) AS revealed,
			COALESCE(l.messages_sent, 0) AS messages_sent
		FROM matches m
		LEFT JOIN consents c1 ON c1.match_id = m.id AND c1.user_id = m.user1_id
		LEFT JOIN consents c2 ON c2.match_id = m.id AND c2.user_id = m.user2_id
		LEFT JOIN chat_limits l ON l.match_id = m.id AND l.user_id = $2
		WHERE m.id = $1`, matchID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match flags: %w", err)
	}
	return &flags, nil
}

// DeactivateForUser retires the user's active matches and returns everyone
// involved to the waiting pool. It returns the newest retired match.
func (r *postgresRepository) DeactivateForUser(ctx context.Context, userID int64) (*Match, error) {
	var retired []Match

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.SelectContext(ctx, &retired,
			`UPDATE matches SET active = FALSE, deactivated_at = NOW()
			 WHERE active = TRUE AND (user1_id = $1 OR user2_id = $1)
			 RETURNING `+matchColumns, userID)
		if err != nil {
			return fmt.Errorf("failed to deactivate matches: %w", err)
		}

		ids := []int64{userID}
		for _, m := range retired {
			ids = append(ids, m.User1ID, m.User2ID)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET status = 'waiting', updated_at = NOW()
			 WHERE id = ANY($1) AND status = 'matched'`,
			pq.Array(ids)); err != nil {
			return fmt.Errorf("failed to reset users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(retired) == 0 {
		return nil, ErrNoActiveMatch
	}
	newest := retired[0]
	for _, m := range retired[1:] {
		if m.CreatedAt.After(newest.CreatedAt) || (m.CreatedAt.Equal(newest.CreatedAt) && m.ID > newest.ID) {
			newest = m
		}
	}
	return &newest, nil
}

func (r *postgresRepository) ListMatches(ctx context.Context, activeOnly bool) ([]*MatchListing, error) {
	query := `
		SELECT m.id, m.user1_id, m.user2_id, m.compatibility_score, m.reasons, m.source, m.active,
			m.chat_unlocked_at, m.revealed_at, m.created_at, m.deactivated_at,
			u1.alias AS user1_alias, u2.alias AS user2_alias
		FROM matches m
		JOIN users u1 ON u1.id = m.user1_id
		JOIN users u2 ON u2.id = m.user2_id
		WHERE ($1 = FALSE OR m.active = TRUE)
		ORDER BY m.created_at DESC, m.id DESC`

	var listings []*MatchListing
	if err := r.db.SelectContext(ctx, &listings, query, activeOnly); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return listings, nil
}
