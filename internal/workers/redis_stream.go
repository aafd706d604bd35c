package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	analyticsmodels "videobot-backend/internal/features/analytics/models"
	botmodels "videobot-backend/internal/features/bot/models"
	downloadmodels "videobot-backend/internal/features/downloads/models"
	usermodels "videobot-backend/internal/features/user/models"
	"videobot-backend/internal/platform/telegram"
)

const (
	consumerGroup = "videobot_backend_consumers"
	eventResult   = "download_result"
)

type DownloadRecorder interface {
	RecordJob(ctx context.Context, jobID string, userID int64, url, platform string, sizeBytes int64, status downloadmodels.Status) (*downloadmodels.RecordResult, error)
}

type ActivityInvalidator interface {
	InvalidateUser(ctx context.Context, userID int64) error
}

type SettingsReader interface {
	GetSettings(ctx context.Context, userID int64) (*usermodels.UserSettings, error)
}

type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) (*telegram.Message, error)
}

// RedisStreamWorker consumes download results published by the fetcher,
// records them in the download log and notifies the user.
type RedisStreamWorker struct {
	rdb       redis.Cmdable
	stream    string
	consumer  string
	block     time.Duration
	downloads DownloadRecorder
	users     SettingsReader
	notifier  Notifier
	activity  ActivityInvalidator
	policy    *bluemonday.Policy
}

func NewRedisStreamWorker(rdb redis.Cmdable, stream, consumer string, downloads DownloadRecorder, users SettingsReader, notifier Notifier, activity ActivityInvalidator) *RedisStreamWorker {
	return &RedisStreamWorker{
		rdb:       rdb,
		stream:    stream,
		consumer:  consumer,
		block:     5 * time.Second,
		downloads: downloads,
		users:     users,
		notifier:  notifier,
		activity:  activity,
		policy:    bluemonday.StrictPolicy(),
	}
}

// Start listens on the results stream until ctx is cancelled. Entries left
// pending by a previous run of this consumer are retried first.
func (w *RedisStreamWorker) Start(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, w.stream, consumerGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		logger.Error().Err(err).Str("stream", w.stream).Msg("Error creating consumer group")
	}

	logger.Info().Str("stream", w.stream).Str("consumer", w.consumer).Msg("Starting Redis stream worker")

	if n, err := w.replayPending(ctx); err != nil && ctx.Err() == nil {
		logger.Warn().Err(err).Msg("Failed to replay pending stream entries")
	} else if n > 0 {
		logger.Info().Int("handled", n).Msg("Replayed pending stream entries")
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping Redis stream worker")
			return
		default:
			if _, _, err := w.poll(ctx, ">"); err != nil {
				if ctx.Err() != nil {
					continue
				}
				logger.Error().Err(err).Msg("Error reading from stream")
				time.Sleep(time.Second)
			}
		}
	}
}

// replayPending walks this consumer's pending entries from the start,
// batch by batch, until none are left after the last one read.
func (w *RedisStreamWorker) replayPending(ctx context.Context) (int, error) {
	total := 0
	start := "0"
	for {
		handled, lastID, err := w.poll(ctx, start)
		total += handled
		if err != nil {
			return total, err
		}
		if lastID == "" {
			return total, nil
		}
		start = lastID
	}
}

// poll reads one batch starting at id (a pending entry id, or ">" for new
// ones) and returns how many entries were handled and the last id read.
func (w *RedisStreamWorker) poll(ctx context.Context, id string) (int, string, error) {
	block := w.block
	if id != ">" {
		block = -1
	}
	entries, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    consumerGroup,
		Consumer: w.consumer,
		Streams:  []string{w.stream, id},
		Count:    10,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, "", nil
		}
		return 0, "", err
	}

	handled := 0
	lastID := ""
	for _, stream := range entries {
		for _, msg := range stream.Messages {
			lastID = msg.ID
			if err := w.processMessage(ctx, msg.Values); err != nil {
				if apperrors.CodeOf(err) == apperrors.ErrCodeStorageUnavailable {
					// left pending, retried on the next start
					logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to record download result")
					continue
				}
				logger.Warn().Err(err).Str("id", msg.ID).Msg("Dropping malformed download result")
			}
			if err := w.ack(ctx, msg.ID); err != nil {
				// a replay finds the job already recorded and only acks it
				logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to ack download result")
				continue
			}
			handled++
		}
	}
	return handled, lastID, nil
}

// ack outlives shutdown so a result recorded just before cancellation is
// not left pending.
func (w *RedisStreamWorker) ack(ctx context.Context, id string) error {
	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	return w.rdb.XAck(ackCtx, w.stream, consumerGroup, id).Err()
}

func (w *RedisStreamWorker) processMessage(ctx context.Context, values map[string]interface{}) error {
	eventType, _ := values["type"].(string)
	if eventType != eventResult {
		return fmt.Errorf("unexpected event type %q", eventType)
	}
	payload, ok := values["payload"].(string)
	if !ok {
		return fmt.Errorf("missing payload")
	}

	var res downloadmodels.JobResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if res.UserID == 0 {
		return fmt.Errorf("result %s has no user", res.JobID)
	}

	recorded, err := w.downloads.RecordJob(ctx, res.JobID, res.UserID, res.URL, res.Platform, res.SizeBytes, res.Status)
	if err != nil {
		return err
	}
	if recorded.Duplicate {
		return nil
	}

	logger.Info().
		Str("job_id", res.JobID).
		Int64("user_id", res.UserID).
		Str("status", string(res.Status)).
		Int64("points_awarded", recorded.PointsAwarded).
		Msg("Download result recorded")

	if w.activity != nil {
		if err := w.activity.InvalidateUser(ctx, res.UserID); err != nil {
			logger.Warn().Err(err).Int64("user_id", res.UserID).Msg("Failed to invalidate user activity cache")
		}
	}

	w.notify(ctx, res, recorded)
	return nil
}

func (w *RedisStreamWorker) notify(ctx context.Context, res downloadmodels.JobResult, recorded *downloadmodels.RecordResult) {
	if w.notifier == nil || res.ChatID == 0 || res.Status == downloadmodels.StatusPending {
		return
	}

	lang := ""
	if w.users != nil {
		settings, err := w.users.GetSettings(ctx, res.UserID)
		if err != nil {
			logger.Warn().Err(err).Int64("user_id", res.UserID).Msg("Failed to load settings for notification")
		} else {
			if !settings.NotificationsEnabled {
				return
			}
			lang = settings.Language
		}
	}

	var text string
	if res.Status == downloadmodels.StatusCompleted {
		text = botmodels.Text(lang, botmodels.MsgDownloadDone,
			recorded.Download.Platform,
			analyticsmodels.FormatBytes(float64(res.SizeBytes)),
			recorded.PointsAwarded,
			recorded.Balance,
		)
	} else {
		reason := res.Error
		if reason == "" {
			reason = "unknown error"
		}
		text = botmodels.Text(lang, botmodels.MsgDownloadFailed, w.policy.Sanitize(reason))
	}

	if _, err := w.notifier.SendMessage(ctx, res.ChatID, text, nil); err != nil {
		logger.Warn().Err(err).Int64("chat_id", res.ChatID).Msg("Failed to notify user about download")
	}
}
