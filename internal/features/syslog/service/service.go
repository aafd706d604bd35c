package service

import (
	"context"
	"unicode/utf8"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/features/syslog/models"
	"videobot-backend/internal/features/syslog/repository"
)

// Service writes audit events. Recording is best-effort: a failed insert
// is logged and never reaches the caller.
type Service struct {
	repo repository.LogRepository
}

func NewSystemLogService(repo repository.LogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Record(ctx context.Context, event models.EventType, description string, userID *int64) {
	entry := &models.SystemLog{
		EventType:   event,
		Description: truncate(description, models.MaxDescriptionLength),
		UserID:      userID,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("event_type", string(event)).Msg("Failed to record system log")
	}
}

// RecordUser is Record for events tied to a user.
func (s *Service) RecordUser(ctx context.Context, event models.EventType, userID int64, description string) {
	s.Record(ctx, event, description, &userID)
}

// Recent returns the newest events of one type, or of every type when
// event is empty.
func (s *Service) Recent(ctx context.Context, event models.EventType, limit int) ([]*models.SystemLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := s.repo.Recent(ctx, event, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("recent_system_logs", err)
	}
	return entries, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
