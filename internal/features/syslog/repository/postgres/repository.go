package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"videobot-backend/internal/features/syslog/models"
	"videobot-backend/internal/features/syslog/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.LogRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, entry *models.SystemLog) error {
	const q = `
		INSERT INTO system_logs (event_type, description, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	var userID sql.NullInt64
	if entry.UserID != nil {
		userID = sql.NullInt64{Int64: *entry.UserID, Valid: true}
	}
	if err := r.db.QueryRowContext(ctx, q, string(entry.EventType), entry.Description, userID).
		Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert system log: %w", err)
	}
	return nil
}

func (r *postgresRepository) Recent(ctx context.Context, event models.EventType, limit int) ([]*models.SystemLog, error) {
	const q = `
		SELECT id, event_type, description, user_id, created_at
		FROM system_logs
		WHERE $1::text = '' OR event_type = $1::text
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, string(event), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list system logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.SystemLog
	for rows.Next() {
		var (
			e      models.SystemLog
			event  string
			userID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &event, &e.Description, &userID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan system log: %w", err)
		}
		e.EventType = models.EventType(event)
		if userID.Valid {
			id := userID.Int64
			e.UserID = &id
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
