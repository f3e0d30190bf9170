// internal/admin/repository.go

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines the admin reporting interface
type Repository interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{LastUpdated: time.Now()}

	// Registrants
	userQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = 'pending_verification' THEN 1 END) AS pending_verification,
			COUNT(CASE WHEN status = 'waiting' THEN 1 END) AS waiting,
			COUNT(CASE WHEN status = 'matched' THEN 1 END) AS matched
		FROM users`
	if err := r.db.GetContext(ctx, &stats.Registrants, userQuery); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	// Payments
	paymentQuery := `
		SELECT
			COUNT(CASE WHEN payment_status = 'pending' THEN 1 END) AS pending,
			COUNT(CASE WHEN payment_status = 'verified' THEN 1 END) AS verified,
			COUNT(CASE WHEN payment_status = 'rejected' THEN 1 END) AS rejected
		FROM user_profiles`
	if err := r.db.GetContext(ctx, &stats.Payments, paymentQuery); err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	// Matches
	matchQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN active THEN 1 END) AS active,
			COUNT(chat_unlocked_at) AS chat_unlocked,
			COUNT(revealed_at) AS revealed,
			COALESCE(AVG(compatibility_score), 0) AS average_compatibility
		FROM matches`
	if err := r.db.GetContext(ctx, &stats.Matches, matchQuery); err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}

	if err := r.db.GetContext(ctx, &stats.MessagesSent, `SELECT COUNT(*) FROM chat_messages`); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	return stats, nil
}
