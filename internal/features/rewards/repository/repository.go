package repository

import (
	"context"
	"time"

	"videobot-backend/internal/features/rewards/models"
)

type ClaimsRepository interface {
	// Claim debits the reward's cost and records the claim in one unit of
	// work. When the balance does not cover the cost ok is false, nothing
	// is written and balance holds the current balance.
	Claim(ctx context.Context, userID int64, reward models.Reward, claimedAt time.Time) (claim *models.ClaimedReward, balance int64, ok bool, err error)
	ListActive(ctx context.Context, userID int64, now time.Time) ([]*models.ClaimedReward, error)
	HasActive(ctx context.Context, userID, rewardID int64, now time.Time) (bool, error)
	// CountExpiredBetween counts claims whose expiry falls in [from, to).
	CountExpiredBetween(ctx context.Context, from, to time.Time) (int64, error)
}
