package service

import (
	"context"
	"time"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/features/points/models"
	"videobot-backend/internal/features/points/repository"
)

// Service is the points ledger. Balances never go negative: every debit is
// a single conditional update in storage.
type Service struct {
	repo repository.PointsRepository
	loc  *time.Location
	now  func() time.Time
}

// NewPointsService creates the ledger. loc decides where calendar days
// begin for the daily bonus; nil means UTC.
func NewPointsService(repo repository.PointsRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) GetBalance(ctx context.Context, userID int64) (*models.UserPoints, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStorageError("get_balance", err).WithUserID(userID)
	}
	return p, nil
}

// Credit adds a positive amount and returns the new balance.
func (s *Service) Credit(ctx context.Context, userID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperrors.NewInvalidAmountError(amount)
	}

	balance, err := s.repo.Credit(ctx, userID, amount)
	if err != nil {
		return 0, apperrors.NewStorageError("credit", err).WithUserID(userID)
	}

	logger.Debug().
		Int64("user_id", userID).
		Int64("amount", amount).
		Int64("balance", balance).
		Msg("Points credited")
	return balance, nil
}

// Debit subtracts amount when the balance covers it. A declined debit is
// reported as false with no error and leaves the balance untouched.
func (s *Service) Debit(ctx context.Context, userID, amount int64) (bool, error) {
	if amount <= 0 {
		return false, apperrors.NewInvalidAmountError(amount)
	}

	balance, ok, err := s.repo.Debit(ctx, userID, amount)
	if err != nil {
		return false, apperrors.NewStorageError("debit", err).WithUserID(userID)
	}
	if !ok {
		logger.Debug().Int64("user_id", userID).Int64("amount", amount).Msg("Debit declined")
		return false, nil
	}

	logger.Debug().
		Int64("user_id", userID).
		Int64("amount", amount).
		Int64("balance", balance).
		Msg("Points debited")
	return true, nil
}

// DailyBonus awards 5 + 2*streak points at most once per calendar day.
func (s *Service) DailyBonus(ctx context.Context, userID int64) (*models.DailyBonusResult, error) {
	today := models.CivilDate(s.now().In(s.loc))

	result, err := s.repo.ClaimDailyBonus(ctx, userID, today, func(state models.UserPoints) models.DailyBonusResult {
		return models.DecideDailyBonus(state, today)
	})
	if err != nil {
		return nil, apperrors.NewStorageError("daily_bonus", err).WithUserID(userID)
	}

	if result.Status == models.BonusStatusSuccess {
		logger.Info().
			Int64("user_id", userID).
			Int64("awarded", result.PointsAwarded).
			Int("streak", result.Streak).
			Msg("Daily bonus claimed")
	}
	return result, nil
}

// Today returns the current calendar day in the ledger's zone.
func (s *Service) Today() time.Time {
	return models.CivilDate(s.now().In(s.loc))
}
