package service

import (
	"context"
	"errors"
	"strings"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/common/validation"
	"videobot-backend/internal/features/user/mapper"
	"videobot-backend/internal/features/user/models"
	"videobot-backend/internal/features/user/repository"
)

type Options struct {
	DefaultQuality string
	MaxFileSizeMB  int
	AdminIDs       []int64
}

type Service struct {
	repo   repository.UserRepository
	opts   Options
	admins map[int64]struct{}
}

func NewUserService(repo repository.UserRepository, opts Options) *Service {
	if opts.DefaultQuality == "" {
		opts.DefaultQuality = validation.QualityBest
	}
	if opts.MaxFileSizeMB <= 0 {
		opts.MaxFileSizeMB = 50
	}

	admins := make(map[int64]struct{}, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = struct{}{}
	}
	return &Service{repo: repo, opts: opts, admins: admins}
}

func (s *Service) IsAdmin(userID int64) bool {
	_, ok := s.admins[userID]
	return ok
}

// Register creates the user on first contact and refreshes the profile and
// activity time afterwards.
func (s *Service) Register(ctx context.Context, id int64, username, firstName, lastName, languageCode string) error {
	_, err := s.GetOrCreate(ctx, id, username, firstName, lastName, languageCode)
	return err
}

func (s *Service) GetOrCreate(ctx context.Context, id int64, username, firstName, lastName, languageCode string) (*models.User, error) {
	user := &models.User{
		ID:        id,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		IsAdmin:   s.IsAdmin(id),
	}

	created, err := s.repo.Upsert(ctx, user, models.DefaultSettings(id, s.opts.DefaultQuality, s.opts.MaxFileSizeMB, languageFor(languageCode)))
	if err != nil {
		return nil, apperrors.NewStorageError("upsert_user", err).WithUserID(id)
	}
	if created {
		logger.Info().Int64("user_id", id).Str("username", username).Msg("New user registered")
	}
	return user, nil
}

// languageFor picks the interface language for a new user from Telegram's
// language code, defaulting to Arabic.
func languageFor(code string) string {
	if strings.HasPrefix(strings.ToLower(code), validation.LanguageEnglish) {
		return validation.LanguageEnglish
	}
	return validation.LanguageArabic
}

func (s *Service) GetUser(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeUserNotFound, "User not found").WithUserID(id)
		}
		return nil, apperrors.NewStorageError("get_user", err).WithUserID(id)
	}

	settings, err := s.GetSettings(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.ToUserResponse(user, settings), nil
}

// GetSettings returns the user's settings, falling back to defaults for
// users that have never been registered.
func (s *Service) GetSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return models.DefaultSettings(userID, s.opts.DefaultQuality, s.opts.MaxFileSizeMB, validation.LanguageArabic), nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError("get_settings", err).WithUserID(userID)
	}
	return settings, nil
}

// UpdateSettings validates and applies a partial settings change.
func (s *Service) UpdateSettings(ctx context.Context, userID int64, update models.SettingsUpdate) (*models.UserSettings, error) {
	if update.DefaultQuality != nil {
		q := strings.ToLower(*update.DefaultQuality)
		if err := validation.ValidateQuality(q); err != nil {
			return nil, apperrors.NewValidationError("default_quality", err.Error())
		}
		update.DefaultQuality = &q
	}
	if update.MaxFileSizeMB != nil {
		if err := validation.ValidateMaxFileSize(*update.MaxFileSizeMB, s.opts.MaxFileSizeMB); err != nil {
			return nil, apperrors.NewValidationError("max_file_size_mb", err.Error())
		}
	}
	if update.Language != nil {
		if err := validation.ValidateLanguage(*update.Language); err != nil {
			return nil, apperrors.NewValidationError("language", err.Error())
		}
	}

	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.DefaultQuality != nil {
		settings.DefaultQuality = *update.DefaultQuality
	}
	if update.MaxFileSizeMB != nil {
		settings.MaxFileSizeMB = *update.MaxFileSizeMB
	}
	if update.Language != nil {
		settings.Language = *update.Language
	}
	if update.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *update.NotificationsEnabled
	}

	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeUserNotFound, "User not found").WithUserID(userID)
		}
		return nil, apperrors.NewStorageError("update_settings", err).WithUserID(userID)
	}
	return settings, nil
}
