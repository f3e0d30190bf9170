package otp

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestMarkOTPAsVerifiedOnlyOnce(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE otps SET verified = true, verified_at = \$1 WHERE id = \$2 AND verified = false`).
		WithArgs(sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE otps SET verified = true`).
		WithArgs(sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkOTPAsVerified(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkOTPAsVerified(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementAttemptsReturnsCount(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`UPDATE otps SET attempts = attempts \+ 1 WHERE id = \$1 RETURNING attempts`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"attempts"}).AddRow(2))

	attempts, err := repo.IncrementAttempts(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestOTPByRecipientNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM otps`).
		WithArgs("nobody@up.edu.ph", OTPTypeSignin).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetLatestOTPByRecipient(context.Background(), "nobody@up.edu.ph", OTPTypeSignin)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}
