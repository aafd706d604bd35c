package models

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Download is one row of the append-only download log.
// JobID is set for results of fetcher jobs and is unique across the log.
type Download struct {
	ID        int64     `json:"id"`
	JobID     string    `json:"job_id,omitempty"`
	UserID    int64     `json:"user_id"`
	URL       string    `json:"url"`
	Platform  string    `json:"platform"`
	SizeBytes int64     `json:"size_bytes"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordResult is a logged download plus the points it earned. Duplicate
// is set when the job was already recorded; nothing was written or credited.
type RecordResult struct {
	Download      *Download `json:"download"`
	PointsAwarded int64     `json:"points_awarded"`
	Balance       int64     `json:"balance,omitempty"`
	Duplicate     bool      `json:"duplicate,omitempty"`
}

// UserStats is per-user download bookkeeping, updated after each
// completed download.
type UserStats struct {
	UserID            int64      `json:"user_id"`
	TotalDownloads    int64      `json:"total_downloads"`
	TotalStorageBytes int64      `json:"total_storage_bytes"`
	LastDownloadAt    *time.Time `json:"last_download_at,omitempty"`
}
