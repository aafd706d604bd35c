package repository

import (
	"context"
	"time"

	"videobot-backend/internal/features/analytics/models"
)

// DownloadTotals aggregates the download log over a window.
type DownloadTotals struct {
	Total     int64
	Completed int64
	SizeBytes int64
}

// UserTotals aggregates one user's downloads.
type UserTotals struct {
	Downloads int64
	SizeBytes int64
}

// AnalyticsRepository is read-only.
type AnalyticsRepository interface {
	DownloadTotals(ctx context.Context, since time.Time) (DownloadTotals, error)
	PlatformCounts(ctx context.Context, since time.Time) ([]models.PlatformCount, error)

	UserTotals(ctx context.Context, userID int64) (UserTotals, error)
	FavoritePlatform(ctx context.Context, userID int64) (string, error)
	DailyCounts(ctx context.Context, userID int64, since time.Time) ([]models.DailyCount, error)
	LastActivity(ctx context.Context, userID int64) (*time.Time, error)

	TopRewards(ctx context.Context, limit int) ([]models.RewardPopularity, error)
	PointsQuartiles(ctx context.Context) ([]models.PointsQuartile, error)
	PointsTotals(ctx context.Context) (outstanding, redeemed int64, err error)

	ActiveUsers(ctx context.Context, since time.Time) (active, total int64, err error)
	LogCounts(ctx context.Context, since time.Time, errorEvent string) (total, errors int64, err error)
	StorageTotal(ctx context.Context) (int64, error)
}
