package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"videobot-backend/internal/features/analytics/models"
	"videobot-backend/internal/features/analytics/repository"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.AnalyticsRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) queryRow(ctx context.Context, b sq.Sqlizer, dest ...interface{}) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.db.QueryRowContext(ctx, query, args...).Scan(dest...)
}

func (r *postgresRepository) query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.db.QueryContext(ctx, query, args...)
}

func (r *postgresRepository) DownloadTotals(ctx context.Context, since time.Time) (repository.DownloadTotals, error) {
	q := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'completed')",
		"COALESCE(SUM(size_bytes), 0)",
	).
		From("downloads").
		Where(sq.GtOrEq{"created_at": since})

	var t repository.DownloadTotals
	if err := r.queryRow(ctx, q, &t.Total, &t.Completed, &t.SizeBytes); err != nil {
		return t, fmt.Errorf("download totals: %w", err)
	}
	return t, nil
}

func (r *postgresRepository) PlatformCounts(ctx context.Context, since time.Time) ([]models.PlatformCount, error) {
	q := psql.Select("platform", "COUNT(*) AS downloads").
		From("downloads").
		Where(sq.GtOrEq{"created_at": since}).
		GroupBy("platform").
		OrderBy("downloads DESC", "platform")

	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("platform counts: %w", err)
	}
	defer rows.Close()

	var counts []models.PlatformCount
	for rows.Next() {
		var c models.PlatformCount
		if err := rows.Scan(&c.Platform, &c.Downloads); err != nil {
			return nil, fmt.Errorf("scan platform count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *postgresRepository) UserTotals(ctx context.Context, userID int64) (repository.UserTotals, error) {
	q := psql.Select("COUNT(*)", "COALESCE(SUM(size_bytes), 0)").
		From("downloads").
		Where(sq.Eq{"user_id": userID, "status": "completed"})

	var t repository.UserTotals
	if err := r.queryRow(ctx, q, &t.Downloads, &t.SizeBytes); err != nil {
		return t, fmt.Errorf("user totals: %w", err)
	}
	return t, nil
}

func (r *postgresRepository) FavoritePlatform(ctx context.Context, userID int64) (string, error) {
	q := psql.Select("platform").
		From("downloads").
		Where(sq.Eq{"user_id": userID}).
		GroupBy("platform").
		OrderBy("COUNT(*) DESC", "platform").
		Limit(1)

	var platform string
	err := r.queryRow(ctx, q, &platform)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("favorite platform: %w", err)
	}
	return platform, nil
}

func (r *postgresRepository) DailyCounts(ctx context.Context, userID int64, since time.Time) ([]models.DailyCount, error) {
	q := psql.Select("to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day", "COUNT(*)").
		From("downloads").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": since}).
		GroupBy("day").
		OrderBy("day")

	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	var counts []models.DailyCount
	for rows.Next() {
		var c models.DailyCount
		if err := rows.Scan(&c.Date, &c.Downloads); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *postgresRepository) LastActivity(ctx context.Context, userID int64) (*time.Time, error) {
	q := psql.Select("last_activity_at").From("users").Where(sq.Eq{"id": userID})

	var at time.Time
	err := r.queryRow(ctx, q, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last activity: %w", err)
	}
	return &at, nil
}

func (r *postgresRepository) TopRewards(ctx context.Context, limit int) ([]models.RewardPopularity, error) {
	q := psql.Select("reward_id", "COUNT(*) AS claims").
		From("claimed_rewards").
		GroupBy("reward_id").
		OrderBy("claims DESC", "reward_id").
		Limit(uint64(limit))

	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("top rewards: %w", err)
	}
	defer rows.Close()

	var top []models.RewardPopularity
	for rows.Next() {
		var p models.RewardPopularity
		if err := rows.Scan(&p.RewardID, &p.Claims); err != nil {
			return nil, fmt.Errorf("scan reward popularity: %w", err)
		}
		top = append(top, p)
	}
	return top, rows.Err()
}

func (r *postgresRepository) PointsQuartiles(ctx context.Context) ([]models.PointsQuartile, error) {
	ranked := psql.Select("points", "NTILE(4) OVER (ORDER BY points) AS quartile").From("user_points")
	q := psql.Select("quartile", "COUNT(*)", "MIN(points)", "MAX(points)", "AVG(points)::float8").
		FromSelect(ranked, "ranked").
		GroupBy("quartile").
		OrderBy("quartile")

	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("points quartiles: %w", err)
	}
	defer rows.Close()

	var quartiles []models.PointsQuartile
	for rows.Next() {
		var qt models.PointsQuartile
		if err := rows.Scan(&qt.Quartile, &qt.Users, &qt.Min, &qt.Max, &qt.Average); err != nil {
			return nil, fmt.Errorf("scan quartile: %w", err)
		}
		quartiles = append(quartiles, qt)
	}
	return quartiles, rows.Err()
}

func (r *postgresRepository) PointsTotals(ctx context.Context) (int64, int64, error) {
	q := psql.Select(
		"COALESCE((SELECT SUM(points) FROM user_points), 0)",
		"COALESCE((SELECT SUM(reward_id) FROM claimed_rewards), 0)",
	)

	var outstanding, redeemed int64
	if err := r.queryRow(ctx, q, &outstanding, &redeemed); err != nil {
		return 0, 0, fmt.Errorf("points totals: %w", err)
	}
	return outstanding, redeemed, nil
}

func (r *postgresRepository) ActiveUsers(ctx context.Context, since time.Time) (int64, int64, error) {
	q := psql.Select().
		Column(sq.Expr("COUNT(*) FILTER (WHERE last_activity_at >= ?)", since)).
		Column("COUNT(*)").
		From("users")

	var active, total int64
	if err := r.queryRow(ctx, q, &active, &total); err != nil {
		return 0, 0, fmt.Errorf("active users: %w", err)
	}
	return active, total, nil
}

func (r *postgresRepository) LogCounts(ctx context.Context, since time.Time, errorEvent string) (int64, int64, error) {
	q := psql.Select("COUNT(*)").
		Column(sq.Expr("COUNT(*) FILTER (WHERE event_type = ?)", errorEvent)).
		From("system_logs").
		Where(sq.GtOrEq{"created_at": since})

	var total, errs int64
	if err := r.queryRow(ctx, q, &total, &errs); err != nil {
		return 0, 0, fmt.Errorf("log counts: %w", err)
	}
	return total, errs, nil
}

func (r *postgresRepository) StorageTotal(ctx context.Context) (int64, error) {
	q := psql.Select("COALESCE(SUM(size_bytes), 0)").
		From("downloads").
		Where(sq.Eq{"status": "completed"})

	var total int64
	if err := r.queryRow(ctx, q, &total); err != nil {
		return 0, fmt.Errorf("storage total: %w", err)
	}
	return total, nil
}
