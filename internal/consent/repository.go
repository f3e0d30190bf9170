// internal/consent/repository.go

package consent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines the consent data access interface
type Repository interface {
	GetParticipants(ctx context.Context, matchID int64) (*Participants, error)
	Upsert(ctx context.Context, matchID, userID int64, field Field, value bool) error
	GetPair(ctx context.Context, p *Participants, field Field) (Pair, error)
	MarkUnlocked(ctx context.Context, matchID int64, field Field) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetParticipants(ctx context.Context, matchID int64) (*Participants, error) {
	var p Participants
	err := r.db.GetContext(ctx, &p, `SELECT id, user1_id, user2_id, active FROM matches WHERE id = $1`, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &p, nil
}

// Upsert writes one flag, creating the participant's row when it is missing
func (r *postgresRepository) Upsert(ctx context.Context, matchID, userID int64, field Field, value bool) error {
	col := field.column()
	query := fmt.Sprintf(`
		INSERT INTO consents (match_id, user_id, %[1]s, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (match_id, user_id)
		DO UPDATE SET %[1]s = EXCLUDED.%[1]s, updated_at = NOW()`, col)

	if _, err := r.db.ExecContext(ctx, query, matchID, userID, value); err != nil {
		return fmt.Errorf("failed to save consent: %w", err)
	}
	return nil
}

// GetPair reads the flag for exactly the match's two participants
func (r *postgresRepository) GetPair(ctx context.Context, p *Participants, field Field) (Pair, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(BOOL_OR(%[1]s) FILTER (WHERE user_id = $2), FALSE) AS first,
			COALESCE(BOOL_OR(%[1]s) FILTER (WHERE user_id = $3), FALSE) AS second
		FROM consents
		WHERE match_id = $1 AND user_id IN ($2, $3)`, field.column())

	var pair Pair
	if err := r.db.QueryRowxContext(ctx, query, p.MatchID, p.User1ID, p.User2ID).Scan(&pair.First, &pair.Second); err != nil {
		return Pair{}, fmt.Errorf("failed to read consents: %w", err)
	}
	return pair, nil
}

// MarkUnlocked stamps the unlock time once. It reports whether this call did it.
func (r *postgresRepository) MarkUnlocked(ctx context.Context, matchID int64, field Field) (bool, error) {
	col := field.unlockColumn()
	query := fmt.Sprintf(`UPDATE matches SET %[1]s = NOW() WHERE id = $1 AND %[1]s IS NULL`, col)

	result, err := r.db.ExecContext(ctx, query, matchID)
	if err != nil {
		return false, fmt.Errorf("failed to mark %s: %w", col, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}
