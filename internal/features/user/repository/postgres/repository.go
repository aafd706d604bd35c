package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"videobot-backend/internal/features/user/models"
	"videobot-backend/internal/features/user/repository"
	"videobot-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

// Upsert inserts or refreshes the user and makes sure a settings row exists.
func (r *postgresRepository) Upsert(ctx context.Context, user *models.User, defaults *models.UserSettings) (bool, error) {
	var created bool
	err := postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		const upsertUser = `
			INSERT INTO users (id, username, first_name, last_name, is_admin)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				username = EXCLUDED.username,
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				is_admin = EXCLUDED.is_admin,
				last_activity_at = NOW()
			RETURNING joined_at, last_activity_at, (xmax = 0) AS inserted
		`
		if err := tx.QueryRowContext(ctx, upsertUser,
			user.ID, user.Username, user.FirstName, user.LastName, user.IsAdmin).
			Scan(&user.JoinedAt, &user.LastActivityAt, &created); err != nil {
			return fmt.Errorf("failed to upsert user: %w", err)
		}

		const insertSettings = `
			INSERT INTO user_settings (user_id, default_quality, max_file_size_mb, language, notifications_enabled)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, insertSettings, user.ID, defaults.DefaultQuality,
			defaults.MaxFileSizeMB, defaults.Language, defaults.NotificationsEnabled); err != nil {
			return fmt.Errorf("failed to create user settings: %w", err)
		}
		return nil
	})
	return created, err
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, username, first_name, last_name, is_admin, joined_at, last_activity_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName,
		&user.IsAdmin, &user.JoinedAt, &user.LastActivityAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *postgresRepository) GetSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	const query = `
		SELECT user_id, default_quality, max_file_size_mb, language, notifications_enabled
		FROM user_settings
		WHERE user_id = $1
	`

	var s models.UserSettings
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.DefaultQuality, &s.MaxFileSizeMB, &s.Language, &s.NotificationsEnabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) UpdateSettings(ctx context.Context, s *models.UserSettings) error {
	const query = `
		UPDATE user_settings
		SET default_quality = $2, max_file_size_mb = $3, language = $4, notifications_enabled = $5
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		s.UserID, s.DefaultQuality, s.MaxFileSizeMB, s.Language, s.NotificationsEnabled)
	if err != nil {
		return fmt.Errorf("failed to update user settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}
