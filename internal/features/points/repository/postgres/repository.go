package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"videobot-backend/internal/features/points/models"
	"videobot-backend/internal/features/points/repository"
	"videobot-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.PointsRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Get(ctx context.Context, userID int64) (*models.UserPoints, error) {
	const q = `
		SELECT user_id, points, last_daily_bonus, streak_days, updated_at
		FROM user_points
		WHERE user_id = $1
	`
	p, err := scanPoints(r.db.QueryRowContext(ctx, q, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UserPoints{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get points: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Credit(ctx context.Context, userID, amount int64) (int64, error) {
	return CreditWith(ctx, r.db, userID, amount)
}

func (r *postgresRepository) Debit(ctx context.Context, userID, amount int64) (int64, bool, error) {
	return DebitWith(ctx, r.db, userID, amount)
}

func (r *postgresRepository) ClaimDailyBonus(ctx context.Context, userID int64, today time.Time, decide repository.DailyBonusDecider) (*models.DailyBonusResult, error) {
	var result models.DailyBonusResult
	err := postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := ensureRow(ctx, tx, userID); err != nil {
			return err
		}

		const lock = `
			SELECT user_id, points, last_daily_bonus, streak_days, updated_at
			FROM user_points
			WHERE user_id = $1
			FOR UPDATE
		`
		state, err := scanPoints(tx.QueryRowContext(ctx, lock, userID))
		if err != nil {
			return fmt.Errorf("failed to lock points row: %w", err)
		}

		result = decide(*state)
		if result.Status != models.BonusStatusSuccess {
			return nil
		}

		const update = `
			UPDATE user_points
			SET points = points + $2,
				last_daily_bonus = $3::date,
				streak_days = $4,
				updated_at = NOW()
			WHERE user_id = $1
			RETURNING points
		`
		if err := tx.QueryRowContext(ctx, update, userID, result.PointsAwarded, models.FormatDate(result.Day), result.Streak).
			Scan(&result.Balance); err != nil {
			return fmt.Errorf("failed to apply daily bonus: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreditWith adds amount to the balance, creating the row on first use.
func CreditWith(ctx context.Context, q postgres.DBTX, userID, amount int64) (int64, error) {
	const query = `
		INSERT INTO user_points (user_id, points)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			points = user_points.points + EXCLUDED.points,
			updated_at = NOW()
		RETURNING points
	`
	var balance int64
	if err := q.QueryRowContext(ctx, query, userID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to credit points: %w", err)
	}
	return balance, nil
}

// DebitWith is the single conditional statement guarding the non-negative
// balance invariant. Zero affected rows means the debit was declined.
func DebitWith(ctx context.Context, q postgres.DBTX, userID, amount int64) (int64, bool, error) {
	const query = `
		UPDATE user_points
		SET points = points - $2, updated_at = NOW()
		WHERE user_id = $1 AND points >= $2
		RETURNING points
	`
	var balance int64
	err := q.QueryRowContext(ctx, query, userID, amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to debit points: %w", err)
	}
	return balance, true, nil
}

func ensureRow(ctx context.Context, q postgres.DBTX, userID int64) error {
	const query = `INSERT INTO user_points (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	if _, err := q.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to ensure points row: %w", err)
	}
	return nil
}

func scanPoints(row *sql.Row) (*models.UserPoints, error) {
	var (
		p         models.UserPoints
		lastBonus sql.NullTime
	)
	if err := row.Scan(&p.UserID, &p.Points, &lastBonus, &p.StreakDays, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if lastBonus.Valid {
		day := models.CivilDate(lastBonus.Time)
		p.LastDailyBonus = &day
	}
	return &p, nil
}
