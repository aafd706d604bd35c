package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pointspg "videobot-backend/internal/features/points/repository/postgres"
	"videobot-backend/internal/features/rewards/models"
	"videobot-backend/internal/features/rewards/repository"
	"videobot-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ClaimsRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Claim(ctx context.Context, userID int64, reward models.Reward, claimedAt time.Time) (*models.ClaimedReward, int64, bool, error) {
	var (
		claim   *models.ClaimedReward
		balance int64
		ok      bool
	)

	err := postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		balance, ok, err = pointspg.DebitWith(ctx, tx, userID, reward.Cost())
		if err != nil {
			return err
		}
		if !ok {
			const current = `SELECT COALESCE((SELECT points FROM user_points WHERE user_id = $1), 0)`
			if err := tx.QueryRowContext(ctx, current, userID).Scan(&balance); err != nil {
				return fmt.Errorf("failed to read balance: %w", err)
			}
			return nil
		}

		claim = &models.ClaimedReward{
			UserID:    userID,
			RewardID:  reward.ID,
			ClaimedAt: claimedAt,
			ExpiresAt: models.ExpiryFor(reward, claimedAt),
		}
		const insert = `
			INSERT INTO claimed_rewards (user_id, reward_id, claimed_at, expires_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, insert, claim.UserID, claim.RewardID, claim.ClaimedAt, claim.ExpiresAt).
			Scan(&claim.ID); err != nil {
			return fmt.Errorf("failed to insert claimed reward: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, false, err
	}
	return claim, balance, ok, nil
}

func (r *postgresRepository) ListActive(ctx context.Context, userID int64, now time.Time) ([]*models.ClaimedReward, error) {
	const q = `
		SELECT id, user_id, reward_id, claimed_at, expires_at
		FROM claimed_rewards
		WHERE user_id = $1 AND expires_at > $2
		ORDER BY claimed_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rewards: %w", err)
	}
	defer rows.Close()

	var claims []*models.ClaimedReward
	for rows.Next() {
		c := &models.ClaimedReward{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.RewardID, &c.ClaimedAt, &c.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan claimed reward: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claimed rewards: %w", err)
	}
	return claims, nil
}

func (r *postgresRepository) HasActive(ctx context.Context, userID, rewardID int64, now time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM claimed_rewards
			WHERE user_id = $1 AND reward_id = $2 AND expires_at > $3
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, userID, rewardID, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active reward: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CountExpiredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	const q = `SELECT COUNT(*) FROM claimed_rewards WHERE expires_at >= $1 AND expires_at < $2`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count expired rewards: %w", err)
	}
	return n, nil
}
