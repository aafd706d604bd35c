package middleware

import (
	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"videobot-backend/internal/common/errors"
)

// CurrentUser returns the Telegram user stored by TelegramInitDataMiddleware.
func CurrentUser(c *gin.Context) (initdata.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return initdata.User{}, false
	}
	telegramUser, ok := user.(initdata.User)
	return telegramUser, ok
}

// UserID returns the authenticated user's Telegram ID, or 0.
func UserID(c *gin.Context) int64 {
	return getUserID(c)
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			sendErrorResponse(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}
		c.Next()
	}
}

func RequireAdmin(adminIDs []int64) gin.HandlerFunc {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return func(c *gin.Context) {
		telegramUser, ok := CurrentUser(c)
		if !ok {
			sendErrorResponse(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		if _, isAdmin := admins[telegramUser.ID]; !isAdmin {
			sendErrorResponse(c, errors.NewForbiddenError("admin access required"))
			return
		}

		c.Next()
	}
}
