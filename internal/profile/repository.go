// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/tadhana-backend/internal/common/database"
)

// Repository is the Profile Store
type Repository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateRegistration(ctx context.Context, user *User, profile *Profile) error
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	GetContact(ctx context.Context, userID int64) (*Contact, error)
	UpdateDocument(ctx context.Context, userID int64, doc Document) error
	SetPaymentProof(ctx context.Context, userID int64, url string) error
	SetPaymentStatus(ctx context.Context, userID int64, status PaymentStatus) error
	MarkVerified(ctx context.Context, userID int64) (bool, error)
	ListRegistrants(ctx context.Context, status UserStatus) ([]*Registrant, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// CreateRegistration inserts the user and their profile row together
func (r *postgresRepository) CreateRegistration(ctx context.Context, user *User, profile *Profile) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO users (email, full_name, alias, phone, participation_mode, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			user.Email, user.FullName, user.Alias, user.Phone, user.ParticipationMode, user.Status,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		profile.UserID = user.ID
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO user_profiles (user_id, profile, payment_reference, payment_status, verification_status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`,
			profile.UserID, profile.Document, profile.PaymentReference, profile.PaymentStatus, profile.VerificationStatus,
		).Scan(&profile.CreatedAt, &profile.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
}

const userColumns = `id, email, full_name, alias, phone, participation_mode, status, created_at, updated_at`

func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, `
		SELECT user_id, profile, payment_reference, payment_proof_url, payment_status,
		       verification_status, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	var c Contact
	err := r.db.GetContext(ctx, &c, `SELECT id, email, full_name, alias, participation_mode FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) UpdateDocument(ctx context.Context, userID int64, doc Document) error {
	return r.execOne(ctx, ErrProfileNotFound,
		`UPDATE user_profiles SET profile = $2, updated_at = CURRENT_TIMESTAMP WHERE user_id = $1`,
		userID, doc)
}

func (r *postgresRepository) SetPaymentProof(ctx context.Context, userID int64, url string) error {
	return r.execOne(ctx, ErrProfileNotFound,
		`UPDATE user_profiles SET payment_proof_url = $2, payment_status = 'pending', updated_at = CURRENT_TIMESTAMP WHERE user_id = $1`,
		userID, url)
}

func (r *postgresRepository) SetPaymentStatus(ctx context.Context, userID int64, status PaymentStatus) error {
	return r.execOne(ctx, ErrProfileNotFound,
		`UPDATE user_profiles SET payment_status = $2, updated_at = CURRENT_TIMESTAMP WHERE user_id = $1`,
		userID, status)
}

// MarkVerified moves a pending registrant to waiting; false means they were not pending
func (r *postgresRepository) MarkVerified(ctx context.Context, userID int64) (bool, error) {
	var moved bool
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users SET status = 'waiting', updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND status = 'pending_verification'`, userID)
		if err != nil {
			return fmt.Errorf("failed to update user status: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		moved = n == 1

		_, err = tx.ExecContext(ctx, `
			UPDATE user_profiles SET verification_status = 'verified', updated_at = CURRENT_TIMESTAMP
			WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to update verification status: %w", err)
		}
		return nil
	})
	return moved, err
}

func (r *postgresRepository) ListRegistrants(ctx context.Context, status UserStatus) ([]*Registrant, error) {
	query := `
		SELECT u.id, u.email, u.full_name, u.alias, u.phone, u.participation_mode, u.status,
		       u.created_at, u.updated_at,
		       p.profile, p.payment_reference, p.payment_proof_url, p.payment_status,
		       p.verification_status, p.created_at, p.updated_at
		FROM users u
		JOIN user_profiles p ON p.user_id = u.id
		WHERE ($1 = '' OR u.status = $1)
		ORDER BY u.created_at, u.id`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list registrants: %w", err)
	}
	defer rows.Close()

	var out []*Registrant
	for rows.Next() {
		var reg Registrant
		u, p := &reg.User, &reg.Profile
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FullName, &u.Alias, &u.Phone, &u.ParticipationMode, &u.Status,
			&u.CreatedAt, &u.UpdatedAt,
			&p.Document, &p.PaymentReference, &p.PaymentProofURL, &p.PaymentStatus,
			&p.VerificationStatus, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registrant: %w", err)
		}
		p.UserID = u.ID
		out = append(out, &reg)
	}
	return out, rows.Err()
}

func (r *postgresRepository) execOne(ctx context.Context, notFound error, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
