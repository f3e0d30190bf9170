// internal/otp/repository.go

package otp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines the OTP repository interface
type Repository interface {
	CreateOTP(ctx context.Context, otp *OTP) error
	GetLatestOTPByRecipient(ctx context.Context, recipient string, otpType OTPType) (*OTP, error)
	IncrementAttempts(ctx context.Context, id int64) (int, error)
	MarkOTPAsVerified(ctx context.Context, id int64) (bool, error)
	InvalidateOTPs(ctx context.Context, recipient string, otpType OTPType) error
	CountRecentOTPs(ctx context.Context, recipient string, window time.Duration) (int, error)
	DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const otpColumns = `id, request_id, user_id, code, type, method, recipient, attempts, verified, expires_at, verified_at, created_at`

// CreateOTP creates a new OTP record
func (r *postgresRepository) CreateOTP(ctx context.Context, otp *OTP) error {
	query := `
		INSERT INTO otps (request_id, user_id, code, type, method, recipient, attempts, verified, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.QueryRowContext(
		ctx,
		query,
		otp.RequestID,
		otp.UserID,
		otp.Code,
		otp.Type,
		otp.Method,
		otp.Recipient,
		otp.Attempts,
		otp.Verified,
		otp.ExpiresAt,
		otp.CreatedAt,
	).Scan(&otp.ID)

	if err != nil {
		return fmt.Errorf("failed to create OTP: %w", err)
	}

	return nil
}

// GetLatestOTPByRecipient retrieves the newest unverified OTP for a recipient
func (r *postgresRepository) GetLatestOTPByRecipient(ctx context.Context, recipient string, otpType OTPType) (*OTP, error) {
	var otp OTP
	query := `
		SELECT ` + otpColumns + `
		FROM otps
		WHERE recipient = $1 AND type = $2 AND verified = false
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &otp, query, recipient, otpType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to get OTP by recipient: %w", err)
	}

	return &otp, nil
}

// IncrementAttempts bumps the attempt counter and returns the new value
func (r *postgresRepository) IncrementAttempts(ctx context.Context, id int64) (int, error) {
	var attempts int
	query := `UPDATE otps SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts`

	if err := r.db.GetContext(ctx, &attempts, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrOTPNotFound
		}
		return 0, fmt.Errorf("failed to update OTP attempts: %w", err)
	}

	return attempts, nil
}

// MarkOTPAsVerified consumes an OTP; false means another request already did
func (r *postgresRepository) MarkOTPAsVerified(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE otps SET verified = true, verified_at = $1 WHERE id = $2 AND verified = false`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark OTP as verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// InvalidateOTPs invalidates all unverified OTPs of a specific type for a recipient
func (r *postgresRepository) InvalidateOTPs(ctx context.Context, recipient string, otpType OTPType) error {
	query := `
		UPDATE otps
		SET verified = true, verified_at = $1
		WHERE recipient = $2 AND type = $3 AND verified = false`

	_, err := r.db.ExecContext(ctx, query, time.Now(), recipient, otpType)
	if err != nil {
		return fmt.Errorf("failed to invalidate OTPs: %w", err)
	}

	return nil
}

// CountRecentOTPs counts OTPs sent to a recipient within the rate-limit window
func (r *postgresRepository) CountRecentOTPs(ctx context.Context, recipient string, window time.Duration) (int, error) {
	var count int
	since := time.Now().Add(-window)

	query := `
		SELECT COUNT(*)
		FROM otps
		WHERE recipient = $1 AND created_at > $2`

	err := r.db.GetContext(ctx, &count, query, recipient, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent OTPs: %w", err)
	}

	return count, nil
}

// DeleteExpiredOTPs deletes expired OTPs and verified ones older than a day
func (r *postgresRepository) DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM otps WHERE expires_at < $1 OR (verified = true AND verified_at < $2)`

	verifiedBefore := before.Add(-24 * time.Hour)

	result, err := r.db.ExecContext(ctx, query, before, verifiedBefore)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired OTPs: %w", err)
	}

	return result.RowsAffected()
}
