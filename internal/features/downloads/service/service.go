package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/common/validation"
	"videobot-backend/internal/features/downloads/models"
	"videobot-backend/internal/features/downloads/repository"
	syslogmodels "videobot-backend/internal/features/syslog/models"
)

const (
	DefaultHistoryLimit = 10
	maxHistoryLimit     = 100
	maxJobIDLength      = 64
)

// PointsCrediter is the slice of the points ledger used to pay for
// completed downloads.
type PointsCrediter interface {
	Credit(ctx context.Context, userID, amount int64) (int64, error)
}

type EventRecorder interface {
	RecordUser(ctx context.Context, event syslogmodels.EventType, userID int64, description string)
}

type Options struct {
	PointsPerDownload int64
}

type Service struct {
	repo   repository.DownloadRepository
	queue  repository.JobQueue
	points PointsCrediter
	events EventRecorder
	opts   Options
	now    func() time.Time
}

func NewDownloadService(repo repository.DownloadRepository, queue repository.JobQueue, points PointsCrediter, events EventRecorder, opts Options) *Service {
	return &Service{
		repo:   repo,
		queue:  queue,
		points: points,
		events: events,
		opts:   opts,
		now:    time.Now,
	}
}

// Record appends a download to the log. For completed downloads it then
// updates the user's statistics and credits PointsPerDownload; failures of
// either step are logged and do not undo the log entry.
func (s *Service) Record(ctx context.Context, userID int64, url, platform string, sizeBytes int64, status models.Status) (*models.RecordResult, error) {
	return s.RecordJob(ctx, "", userID, url, platform, sizeBytes, status)
}

// RecordJob is Record for a fetcher job result. A job already in the log is
// reported as Duplicate and neither updates statistics nor credits points,
// so redelivered results are safe to record again.
func (s *Service) RecordJob(ctx context.Context, jobID string, userID int64, url, platform string, sizeBytes int64, status models.Status) (*models.RecordResult, error) {
	url = strings.TrimSpace(url)
	if url == "" || len(url) > validation.MaxURLLength {
		return nil, apperrors.NewValidationError("url", "must be between 1 and 500 characters")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status", "must be pending, completed or failed")
	}
	if sizeBytes < 0 {
		return nil, apperrors.NewValidationError("size_bytes", "must not be negative")
	}
	if len(jobID) > maxJobIDLength {
		return nil, apperrors.NewValidationError("job_id", "must be at most 64 characters")
	}
	if platform == "" {
		platform = validation.PlatformOf(url)
	}

	d := &models.Download{
		JobID:     jobID,
		UserID:    userID,
		URL:       url,
		Platform:  platform,
		SizeBytes: sizeBytes,
		Status:    status,
	}
	inserted, err := s.repo.Insert(ctx, d)
	if err != nil {
		return nil, apperrors.NewStorageError("record_download", err).WithUserID(userID)
	}

	result := &models.RecordResult{Download: d}
	if !inserted {
		logger.Info().Str("job_id", jobID).Int64("user_id", userID).Msg("Download result already recorded")
		result.Duplicate = true
		return result, nil
	}

	switch status {
	case models.StatusCompleted:
		s.afterCompleted(ctx, d, result)
		s.record(ctx, syslogmodels.EventDownloadCompleted, userID, platform+" "+url)
	case models.StatusFailed:
		s.record(ctx, syslogmodels.EventDownloadFailed, userID, platform+" "+url)
	}

	return result, nil
}

func (s *Service) afterCompleted(ctx context.Context, d *models.Download, result *models.RecordResult) {
	at := d.CreatedAt
	if at.IsZero() {
		at = s.now()
	}
	if err := s.repo.AddToStats(ctx, d.UserID, d.SizeBytes, at); err != nil {
		logger.Warn().Err(err).Int64("user_id", d.UserID).Int64("download_id", d.ID).Msg("Failed to update user stats")
	}

	if s.points == nil || s.opts.PointsPerDownload <= 0 {
		return
	}
	balance, err := s.points.Credit(ctx, d.UserID, s.opts.PointsPerDownload)
	if err != nil {
		logger.Warn().Err(err).Int64("user_id", d.UserID).Int64("download_id", d.ID).Msg("Failed to award download points")
		return
	}
	result.PointsAwarded = s.opts.PointsPerDownload
	result.Balance = balance
}

func (s *Service) record(ctx context.Context, event syslogmodels.EventType, userID int64, description string) {
	if s.events != nil {
		s.events.RecordUser(ctx, event, userID, description)
	}
}

// History returns the user's latest downloads, newest first.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]*models.Download, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	downloads, err := s.repo.History(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("download_history", err).WithUserID(userID)
	}
	return downloads, nil
}

func (s *Service) Stats(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStorageError("user_stats", err).WithUserID(userID)
	}
	return stats, nil
}

// DownloadRequest is a user's ask to fetch a link with their settings.
type DownloadRequest struct {
	UserID        int64
	ChatID        int64
	URL           string
	Quality       string
	MaxFileSizeMB int
	Priority      bool
}

// RequestDownload validates the link and hands a job to the fetcher.
func (s *Service) RequestDownload(ctx context.Context, req DownloadRequest) (*models.Job, error) {
	cleaned := validation.CleanURL(req.URL)
	platform, ok := validation.DetectPlatform(cleaned)
	if !ok {
		return nil, apperrors.NewUnsupportedLinkError(req.URL)
	}

	quality := strings.ToLower(req.Quality)
	if quality == "" {
		quality = validation.QualityBest
	}

	job := &models.Job{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		ChatID:        req.ChatID,
		URL:           cleaned,
		Platform:      platform,
		Quality:       quality,
		MaxFileSizeMB: req.MaxFileSizeMB,
		Priority:      req.Priority,
		RequestedAt:   s.now().UTC(),
	}

	if _, err := s.queue.Publish(ctx, job); err != nil {
		return nil, apperrors.NewStorageError("publish_download_job", err).WithUserID(req.UserID)
	}

	logger.Info().
		Str("job_id", job.ID).
		Int64("user_id", job.UserID).
		Str("platform", platform).
		Str("quality", quality).
		Msg("Download job queued")
	return job, nil
}
