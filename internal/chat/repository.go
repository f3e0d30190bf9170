// internal/chat/repository.go

package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/tadhana-backend/internal/common/database"
)

// Repository defines the chat data access interface
type Repository interface {
	GetThread(ctx context.Context, matchID int64) (*Thread, error)
	AppendMessage(ctx context.Context, matchID, senderID int64, text string, limit int) (*Message, int, error)
	ListMessages(ctx context.Context, matchID int64) ([]*Message, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetThread(ctx context.Context, matchID int64) (*Thread, error) {
	var t Thread
	err := r.db.GetContext(ctx, &t, `SELECT id, user1_id, user2_id, active FROM matches WHERE id = $1`, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &t, nil
}

// AppendMessage spends one unit of the sender's quota and stores the message
// in the same transaction. It returns the sender's new sent count.
func (r *postgresRepository) AppendMessage(ctx context.Context, matchID, senderID int64, text string, limit int) (*Message, int, error) {
	var msg Message
	var sent int

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO chat_limits (match_id, user_id, messages_sent)
			 VALUES ($1, $2, 1)
			 ON CONFLICT (match_id, user_id)
			 DO UPDATE SET messages_sent = chat_limits.messages_sent + 1
			 WHERE chat_limits.messages_sent < $3
			 RETURNING messages_sent`,
			matchID, senderID, limit).Scan(&sent)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLimitReached
		}
		if err != nil {
			return fmt.Errorf("failed to update chat limit: %w", err)
		}

		err = tx.GetContext(ctx, &msg,
			`INSERT INTO chat_messages (match_id, sender_id, message)
			 VALUES ($1, $2, $3)
			 RETURNING id, match_id, sender_id, message, created_at`,
			matchID, senderID, text)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return &msg, sent, nil
}

func (r *postgresRepository) ListMessages(ctx context.Context, matchID int64) ([]*Message, error) {
	messages := []*Message{}
	err := r.db.SelectContext(ctx, &messages,
		`SELECT id, match_id, sender_id, message, created_at
		 FROM chat_messages
		 WHERE match_id = $1
		 ORDER BY created_at, id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
