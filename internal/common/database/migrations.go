// internal/common/database/migrations.go
// Idempotent schema setup run at startup

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Migrations is the ordered schema for the service
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		full_name VARCHAR(150) NOT NULL,
		alias VARCHAR(60) NOT NULL,
		phone VARCHAR(20),
		participation_mode VARCHAR(20) NOT NULL DEFAULT 'anonymous',
		status VARCHAR(30) NOT NULL DEFAULT 'pending_verification',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		profile JSONB NOT NULL DEFAULT '{}',
		payment_reference VARCHAR(100) NOT NULL DEFAULT '',
		payment_proof_url TEXT,
		payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		verification_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id BIGSERIAL PRIMARY KEY,
		user1_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user2_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		compatibility_score INTEGER NOT NULL CHECK (compatibility_score BETWEEN 0 AND 100),
		reasons TEXT[] NOT NULL DEFAULT '{}',
		source VARCHAR(20) NOT NULL DEFAULT 'batch',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		chat_unlocked_at TIMESTAMP WITH TIME ZONE,
		revealed_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		deactivated_at TIMESTAMP WITH TIME ZONE,
		CONSTRAINT distinct_match_users CHECK (user1_id <> user2_id)
	)`,

	`CREATE TABLE IF NOT EXISTS chat_limits (
		match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		messages_sent INTEGER NOT NULL DEFAULT 0 CHECK (messages_sent >= 0),
		PRIMARY KEY (match_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		id BIGSERIAL PRIMARY KEY,
		match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS consents (
		match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		consent_chat BOOLEAN NOT NULL DEFAULT FALSE,
		consent_reveal BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (match_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS otps (
		id BIGSERIAL PRIMARY KEY,
		request_id VARCHAR(36) NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		code VARCHAR(10) NOT NULL,
		type VARCHAR(20) NOT NULL,
		method VARCHAR(10) NOT NULL,
		recipient VARCHAR(255) NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		verified_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	// Indexes
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))`,
	`CREATE INDEX IF NOT EXISTS idx_users_status ON users(status, created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_user1_active ON matches(user1_id) WHERE active`,
	`CREATE INDEX IF NOT EXISTS idx_matches_user2_active ON matches(user2_id) WHERE active`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_match ON chat_messages(match_id, created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_otps_recipient ON otps(recipient, type, created_at DESC)`,
}

// RunMigrations applies every migration in order
func RunMigrations(ctx context.Context, db *sqlx.DB, progress func(i, total int)) error {
	for i, migration := range Migrations {
		if progress != nil {
			progress(i+1, len(Migrations))
		}
		if _, err := db.ExecContext(ctx, migration); err != nil {
			// Concurrent boots can race on CREATE INDEX
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
		}
	}
	return nil
}
