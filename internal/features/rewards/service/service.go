package service

import (
	"context"
	"time"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/features/rewards/models"
	"videobot-backend/internal/features/rewards/repository"
)

type Service struct {
	repo repository.ClaimsRepository
	now  func() time.Time
}

func NewRewardsService(repo repository.ClaimsRepository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Catalog() []models.Reward {
	return models.All()
}

// Claim buys rewardID for userID. An unknown reward is rejected before
// storage is touched. A balance that does not cover the cost yields a
// result with status insufficient_points and no error.
func (s *Service) Claim(ctx context.Context, userID, rewardID int64) (*models.ClaimResult, error) {
	reward, ok := models.Lookup(rewardID)
	if !ok {
		return nil, apperrors.NewUnknownRewardError(rewardID)
	}

	claimedAt := s.now().UTC()
	claim, balance, ok, err := s.repo.Claim(ctx, userID, reward, claimedAt)
	if err != nil {
		return nil, apperrors.NewStorageError("claim_reward", err).WithUserID(userID)
	}

	if !ok {
		logger.Info().
			Int64("user_id", userID).
			Int64("reward_id", rewardID).
			Int64("balance", balance).
			Msg("Reward claim declined: insufficient points")
		return &models.ClaimResult{
			Status:          models.ClaimStatusInsufficientPoints,
			Reward:          reward,
			RemainingPoints: balance,
			Balance:         balance,
			Shortfall:       reward.Cost() - balance,
		}, nil
	}

	logger.Info().
		Int64("user_id", userID).
		Int64("reward_id", rewardID).
		Time("expires_at", claim.ExpiresAt).
		Msg("Reward claimed")

	expires := claim.ExpiresAt
	return &models.ClaimResult{
		Status:          models.ClaimStatusClaimed,
		Reward:          reward,
		Claim:           claim,
		ExpiresAt:       &expires,
		RemainingPoints: balance,
		Balance:         balance,
	}, nil
}

// ListActive returns the user's claims that have not expired yet, ordered
// by claim time.
func (s *Service) ListActive(ctx context.Context, userID int64) ([]*models.ActiveReward, error) {
	claims, err := s.repo.ListActive(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, apperrors.NewStorageError("list_active_rewards", err).WithUserID(userID)
	}

	active := make([]*models.ActiveReward, 0, len(claims))
	for _, c := range claims {
		r, _ := models.Lookup(c.RewardID)
		active = append(active, &models.ActiveReward{
			ClaimedReward: *c,
			Name:          r.Name,
			Category:      r.Category,
		})
	}
	return active, nil
}

func (s *Service) HasActive(ctx context.Context, userID, rewardID int64) (bool, error) {
	ok, err := s.repo.HasActive(ctx, userID, rewardID, s.now().UTC())
	if err != nil {
		return false, apperrors.NewStorageError("has_active_reward", err).WithUserID(userID)
	}
	return ok, nil
}

// ExpiredSince counts claims that lapsed between since and now.
func (s *Service) ExpiredSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := s.repo.CountExpiredBetween(ctx, since, s.now().UTC())
	if err != nil {
		return 0, apperrors.NewStorageError("count_expired_rewards", err)
	}
	return n, nil
}
