package repository

import (
	"context"
	"time"

	"videobot-backend/internal/features/points/models"
)

// DailyBonusDecider computes the bonus outcome from the locked ledger row.
type DailyBonusDecider func(state models.UserPoints) models.DailyBonusResult

type PointsRepository interface {
	// Get returns the ledger row, or a zero row when none exists yet.
	Get(ctx context.Context, userID int64) (*models.UserPoints, error)
	Credit(ctx context.Context, userID, amount int64) (int64, error)
	// Debit subtracts amount only when the balance covers it. ok is false
	// when it does not, in which case nothing is changed.
	Debit(ctx context.Context, userID, amount int64) (balance int64, ok bool, err error)
	// ClaimDailyBonus locks the user's row, asks decide for the outcome and
	// persists it when the status is success.
	ClaimDailyBonus(ctx context.Context, userID int64, today time.Time, decide DailyBonusDecider) (*models.DailyBonusResult, error)
}
