package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"videobot-backend/internal/features/downloads/models"
	"videobot-backend/internal/features/downloads/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.DownloadRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, d *models.Download) (bool, error) {
	const q = `
		INSERT INTO downloads (job_id, user_id, url, platform, size_bytes, status)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6)
		ON CONFLICT (job_id) DO NOTHING
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, q, d.JobID, d.UserID, d.URL, d.Platform, d.SizeBytes, string(d.Status)).
		Scan(&d.ID, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert download: %w", err)
	}
	return true, nil
}

func (r *postgresRepository) History(ctx context.Context, userID int64, limit int) ([]*models.Download, error) {
	const q = `
		SELECT id, COALESCE(job_id, ''), user_id, url, platform, size_bytes, status, created_at
		FROM downloads
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get download history: %w", err)
	}
	defer rows.Close()

	var downloads []*models.Download
	for rows.Next() {
		var (
			d      models.Download
			status string
		)
		if err := rows.Scan(&d.ID, &d.JobID, &d.UserID, &d.URL, &d.Platform, &d.SizeBytes, &status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		d.Status = models.Status(status)
		downloads = append(downloads, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate downloads: %w", err)
	}
	return downloads, nil
}

func (r *postgresRepository) AddToStats(ctx context.Context, userID, sizeBytes int64, at time.Time) error {
	const q = `
		INSERT INTO user_stats (user_id, total_downloads, total_storage_bytes, last_download_at)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			total_downloads = user_stats.total_downloads + 1,
			total_storage_bytes = user_stats.total_storage_bytes + EXCLUDED.total_storage_bytes,
			last_download_at = EXCLUDED.last_download_at
	`
	if _, err := r.db.ExecContext(ctx, q, userID, sizeBytes, at); err != nil {
		return fmt.Errorf("failed to update user stats: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	const q = `
		SELECT user_id, total_downloads, total_storage_bytes, last_download_at
		FROM user_stats
		WHERE user_id = $1
	`
	var (
		s    models.UserStats
		last sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&s.UserID, &s.TotalDownloads, &s.TotalStorageBytes, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	if last.Valid {
		s.LastDownloadAt = &last.Time
	}
	return &s, nil
}
