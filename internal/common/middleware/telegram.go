package middleware

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
)

const (
	initDataHeader      = "init_data"
	webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// TelegramInitDataMiddleware validates the Mini App init data signed with
// the bot token and stores the Telegram user under "user" and "user_id".
// A zero ttl disables the expiration check.
func TelegramInitDataMiddleware(botToken string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(initDataHeader)
		if raw == "" {
			sendErrorResponse(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		if err := initdata.Validate(raw, botToken, ttl); err != nil {
			logger.Debug().Err(err).Msg("Init data validation failed")
			sendErrorResponse(c, errors.NewUnauthorizedError("invalid init data"))
			return
		}

		parsed, err := initdata.Parse(raw)
		if err != nil {
			sendErrorResponse(c, errors.New(errors.ErrCodeBadRequest, "Failed to parse init data"))
			return
		}

		c.Set("user", parsed.User)
		c.Set("user_id", parsed.User.ID)
		c.Next()
	}
}

// WebhookSecret rejects webhook calls whose secret header does not match.
// With no secret configured every call is rejected.
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(webhookSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			sendErrorResponse(c, errors.NewForbiddenError("invalid webhook secret"))
			return
		}
		c.Next()
	}
}
