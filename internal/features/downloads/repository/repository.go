package repository

import (
	"context"
	"time"

	"videobot-backend/internal/features/downloads/models"
)

type DownloadRepository interface {
	// Insert appends d to the log and fills its ID and CreatedAt. It reports
	// false without error when d.JobID was already recorded.
	Insert(ctx context.Context, d *models.Download) (bool, error)
	History(ctx context.Context, userID int64, limit int) ([]*models.Download, error)
	AddToStats(ctx context.Context, userID, sizeBytes int64, at time.Time) error
	GetStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

// JobQueue carries download jobs to the external fetcher.
type JobQueue interface {
	Publish(ctx context.Context, job *models.Job) (string, error)
}
