package repository

import (
	"context"

	"videobot-backend/internal/features/syslog/models"
)

type LogRepository interface {
	Insert(ctx context.Context, entry *models.SystemLog) error
	// Recent lists the newest entries, only of the given type unless it is empty.
	Recent(ctx context.Context, event models.EventType, limit int) ([]*models.SystemLog, error)
}
