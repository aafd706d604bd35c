package repository

import (
	"context"
	"errors"

	"videobot-backend/internal/features/user/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// Upsert creates the user with default settings or refreshes the
	// profile and activity time of an existing one.
	Upsert(ctx context.Context, user *models.User, defaults *models.UserSettings) (created bool, err error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetSettings(ctx context.Context, userID int64) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, settings *models.UserSettings) error
}
