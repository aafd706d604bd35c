package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videobot-backend/internal/features/points/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDebit_Success(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND points >= $2")).
		WithArgs(int64(7), int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"points"}).AddRow(int64(0)))

	balance, ok, err := repo.Debit(context.Background(), 7, 50)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit_DeclinedWhenNoRowMatches(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_points")).
		WithArgs(int64(7), int64(51)).
		WillReturnRows(sqlmock.NewRows([]string{"points"}))

	_, ok, err := repo.Debit(context.Background(), 7, 51)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredit_Upserts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE")).
		WithArgs(int64(7), int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"points"}).AddRow(int64(100)))

	balance, err := repo.Credit(context.Background(), 7, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestGet_MissingRowIsZero(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_points")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "points", "last_daily_bonus", "streak_days", "updated_at"}))

	p, err := repo.Get(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(99), p.UserID)
	assert.Zero(t, p.Points)
	assert.Nil(t, p.LastDailyBonus)
}

func TestClaimDailyBonus_PersistsSuccess(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	today := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO NOTHING")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "points", "last_daily_bonus", "streak_days", "updated_at"}).
			AddRow(int64(7), int64(100), yesterday, 1, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("last_daily_bonus = $3::date")).
		WithArgs(int64(7), int64(9), "2026-10-17", 2).
		WillReturnRows(sqlmock.NewRows([]string{"points"}).AddRow(int64(109)))
	mock.ExpectCommit()

	res, err := repo.ClaimDailyBonus(context.Background(), 7, today, func(state models.UserPoints) models.DailyBonusResult {
		return models.DecideDailyBonus(state, today)
	})
	require.NoError(t, err)
	assert.Equal(t, models.BonusStatusSuccess, res.Status)
	assert.Equal(t, int64(9), res.PointsAwarded)
	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, int64(109), res.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimDailyBonus_AlreadyClaimedDoesNotUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	today := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "points", "last_daily_bonus", "streak_days", "updated_at"}).
			AddRow(int64(7), int64(107), today, 1, time.Now()))
	mock.ExpectCommit()

	res, err := repo.ClaimDailyBonus(context.Background(), 7, today, func(state models.UserPoints) models.DailyBonusResult {
		return models.DecideDailyBonus(state, today)
	})
	require.NoError(t, err)
	assert.Equal(t, models.BonusStatusAlreadyClaimed, res.Status)
	assert.Zero(t, res.PointsAwarded)
	assert.Equal(t, int64(107), res.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
