package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/features/points/models"
	"videobot-backend/internal/features/points/repository"
)

type memoryRepo struct {
	mu   sync.Mutex
	rows map[int64]*models.UserPoints
	err  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int64]*models.UserPoints)}
}

func (m *memoryRepo) row(userID int64) *models.UserPoints {
	p, ok := m.rows[userID]
	if !ok {
		p = &models.UserPoints{UserID: userID}
		m.rows[userID] = p
	}
	return p
}

func (m *memoryRepo) Get(_ context.Context, userID int64) (*models.UserPoints, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p := *m.row(userID)
	return &p, nil
}

func (m *memoryRepo) Credit(_ context.Context, userID, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	p := m.row(userID)
	p.Points += amount
	return p.Points, nil
}

func (m *memoryRepo) Debit(_ context.Context, userID, amount int64) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, false, m.err
	}
	p := m.row(userID)
	if p.Points < amount {
		return 0, false, nil
	}
	p.Points -= amount
	return p.Points, true, nil
}

func (m *memoryRepo) ClaimDailyBonus(_ context.Context, userID int64, today time.Time, decide repository.DailyBonusDecider) (*models.DailyBonusResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p := m.row(userID)
	res := decide(*p)
	if res.Status == models.BonusStatusSuccess {
		day := res.Day
		p.Points = res.Balance
		p.StreakDays = res.Streak
		p.LastDailyBonus = &day
	}
	return &res, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreditAndDebit(t *testing.T) {
	svc := NewPointsService(newMemoryRepo(), nil)
	ctx := context.Background()

	balance, err := svc.Credit(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	ok, err := svc.Debit(ctx, 1, 30)
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(70), p.Points)
}

func TestDebit_InsufficientLeavesBalance(t *testing.T) {
	svc := NewPointsService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, 40)
	require.NoError(t, err)

	ok, err := svc.Debit(ctx, 1, 50)
	require.NoError(t, err)
	assert.False(t, ok)

	p, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(40), p.Points)
}

func TestDebit_ExactBalanceBoundary(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		debit   int64
		ok      bool
		after   int64
	}{
		{name: "exact small", balance: 1, debit: 1, ok: true, after: 0},
		{name: "exact reward cost", balance: 50, debit: 50, ok: true, after: 0},
		{name: "exact large", balance: 1000, debit: 1000, ok: true, after: 0},
		{name: "one over small", balance: 1, debit: 2, ok: false, after: 1},
		{name: "one over reward cost", balance: 50, debit: 51, ok: false, after: 50},
		{name: "one over large", balance: 1000, debit: 1001, ok: false, after: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPointsService(newMemoryRepo(), nil)
			ctx := context.Background()
			_, err := svc.Credit(ctx, 1, tt.balance)
			require.NoError(t, err)

			ok, err := svc.Debit(ctx, 1, tt.debit)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)

			p, err := svc.GetBalance(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.after, p.Points)
		})
	}
}

func TestCreditThenDebit_RestoresBalance(t *testing.T) {
	tests := []struct {
		name  string
		prior int64
		x     int64
	}{
		{name: "from zero", prior: 0, x: 25},
		{name: "from positive", prior: 70, x: 1},
		{name: "large amount", prior: 5, x: 1_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPointsService(newMemoryRepo(), nil)
			ctx := context.Background()
			if tt.prior > 0 {
				_, err := svc.Credit(ctx, 1, tt.prior)
				require.NoError(t, err)
			}

			balance, err := svc.Credit(ctx, 1, tt.x)
			require.NoError(t, err)
			assert.Equal(t, tt.prior+tt.x, balance)

			ok, err := svc.Debit(ctx, 1, tt.x)
			require.NoError(t, err)
			assert.True(t, ok)

			p, err := svc.GetBalance(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.prior, p.Points)
		})
	}
}

func TestUnknownUserHasZeroBalance(t *testing.T) {
	svc := NewPointsService(newMemoryRepo(), nil)

	p, err := svc.GetBalance(context.Background(), 404)
	require.NoError(t, err)
	assert.Zero(t, p.Points)

	ok, err := svc.Debit(context.Background(), 404, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	svc := NewPointsService(newMemoryRepo(), nil)
	ctx := context.Background()

	for _, amount := range []int64{0, -5} {
		_, err := svc.Credit(ctx, 1, amount)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

		_, err = svc.Debit(ctx, 1, amount)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	}
}

func TestStorageFailureIsWrapped(t *testing.T) {
	repo := newMemoryRepo()
	repo.err = errors.New("connection reset")
	svc := NewPointsService(repo, nil)

	_, err := svc.Credit(context.Background(), 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	svc := NewPointsService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, 100)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.Debit(ctx, 1, 30)
			if err == nil && ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	p, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, int64(10), p.Points)
}

func TestDailyBonus_StreakProgression(t *testing.T) {
	repo := newMemoryRepo()
	day1 := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	svc := NewPointsService(repo, time.UTC).WithClock(fixedClock(day1))
	ctx := context.Background()

	res, err := svc.DailyBonus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BonusStatusSuccess, res.Status)
	assert.Equal(t, int64(7), res.PointsAwarded)
	assert.Equal(t, 1, res.Streak)

	res, err = svc.DailyBonus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BonusStatusAlreadyClaimed, res.Status)
	assert.Zero(t, res.PointsAwarded)

	svc.WithClock(fixedClock(day1.AddDate(0, 0, 1)))
	res, err = svc.DailyBonus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, int64(9), res.PointsAwarded)
	assert.Equal(t, int64(16), res.Balance)

	svc.WithClock(fixedClock(day1.AddDate(0, 0, 4)))
	res, err = svc.DailyBonus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, int64(7), res.PointsAwarded)
}

func TestDailyBonus_UsesLedgerTimeZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	repo := newMemoryRepo()
	// 22:30 UTC on the 15th is already the 16th at UTC+3.
	svc := NewPointsService(repo, loc).WithClock(fixedClock(time.Date(2026, 10, 15, 22, 30, 0, 0, time.UTC)))

	res, err := svc.DailyBonus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", models.FormatDate(res.Day))
}
