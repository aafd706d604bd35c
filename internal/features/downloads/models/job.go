package models

import "time"

// Job asks the external fetcher to download and encode a video.
type Job struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	ChatID        int64     `json:"chat_id"`
	URL           string    `json:"url"`
	Platform      string    `json:"platform"`
	Quality       string    `json:"quality"`
	MaxFileSizeMB int       `json:"max_file_size_mb"`
	Priority      bool      `json:"priority"`
	RequestedAt   time.Time `json:"requested_at"`
}

// JobResult is published by the fetcher once a job finishes.
type JobResult struct {
	JobID     string `json:"job_id"`
	UserID    int64  `json:"user_id"`
	ChatID    int64  `json:"chat_id"`
	URL       string `json:"url"`
	Platform  string `json:"platform"`
	SizeBytes int64  `json:"size_bytes"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
}
