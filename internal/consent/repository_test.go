package consent

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewPostgresRepository(sqlx.NewDb(raw, "postgres")), mock
}

func TestUpsert_KeyedOnMatchAndUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (match_id, user_id)")).
		WithArgs(int64(10), int64(1), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), 10, 1, FieldReveal, true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPair_ReadsOnlyParticipants(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE match_id = $1 AND user_id IN ($2, $3)")).
		WithArgs(int64(10), int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"first", "second"}).AddRow(true, false))

	pair, err := repo.GetPair(context.Background(), &Participants{MatchID: 10, User1ID: 1, User2ID: 2}, FieldChat)
	require.NoError(t, err)
	assert.Equal(t, Pair{First: true, Second: false}, pair)
	assert.False(t, pair.Both())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkUnlocked_OnlyFirstTransitionCounts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE matches SET revealed_at = NOW() WHERE id = $1 AND revealed_at IS NULL")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("AND revealed_at IS NULL")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.MarkUnlocked(context.Background(), 10, FieldReveal)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := repo.MarkUnlocked(context.Background(), 10, FieldReveal)
	require.NoError(t, err)
	assert.False(t, again)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetParticipants_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM matches WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user1_id", "user2_id", "active"}))

	_, err := repo.GetParticipants(context.Background(), 404)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
