package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/features/user/models"
	"videobot-backend/internal/features/user/repository"
)

const settingsTTL = 10 * time.Minute

// userRepository caches settings in front of the durable repository.
// Settings are read on every download request and rarely change.
type userRepository struct {
	repository.UserRepository
	client redis.Cmdable
}

func NewUserRepository(client redis.Cmdable, next repository.UserRepository) repository.UserRepository {
	return &userRepository{
		UserRepository: next,
		client:         client,
	}
}

func settingsKey(userID int64) string {
	return fmt.Sprintf("user:settings:%d", userID)
}

func (r *userRepository) GetSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	key := settingsKey(userID)
	if data, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var s models.UserSettings
		if err := json.Unmarshal(data, &s); err == nil {
			return &s, nil
		}
	}

	s, err := r.UserRepository.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(s); err == nil {
		if err := r.client.Set(ctx, key, data, settingsTTL).Err(); err != nil {
			logger.Debug().Err(err).Int64("user_id", userID).Msg("Failed to cache user settings")
		}
	}
	return s, nil
}

func (r *userRepository) UpdateSettings(ctx context.Context, s *models.UserSettings) error {
	if err := r.UserRepository.UpdateSettings(ctx, s); err != nil {
		return err
	}
	// the change is committed; a stale entry expires with settingsTTL
	if err := r.client.Del(ctx, settingsKey(s.UserID)).Err(); err != nil {
		logger.Warn().Err(err).Int64("user_id", s.UserID).Msg("Failed to invalidate cached user settings")
	}
	return nil
}
