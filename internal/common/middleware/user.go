package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"videobot-backend/internal/common/logger"
)

// UserRegistrar records the Telegram profile of a user seen on the API.
type UserRegistrar interface {
	Register(ctx context.Context, id int64, username, firstName, lastName, languageCode string) error
}

// AutoCreateUser upserts the authenticated user before the handler runs.
// Failures are logged; the request still proceeds.
func AutoCreateUser(users UserRegistrar) gin.HandlerFunc {
	return func(c *gin.Context) {
		telegramUser, ok := CurrentUser(c)
		if !ok {
			c.Next()
			return
		}

		if err := users.Register(c.Request.Context(), telegramUser.ID, telegramUser.Username,
			telegramUser.FirstName, telegramUser.LastName, telegramUser.LanguageCode); err != nil {
			logger.Warn().Err(err).Int64("user_id", telegramUser.ID).Msg("Failed to register user")
		}

		c.Next()
	}
}
