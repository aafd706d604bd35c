package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/common/middleware"
	"videobot-backend/internal/features/bot/models"
	"videobot-backend/internal/platform/telegram"
)

type dispatcher interface {
	Dispatch(ctx context.Context, req *models.Request) *models.Reply
}

type sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) (*telegram.Message, error)
	AnswerCallbackQuery(ctx context.Context, callbackID, text string, showAlert bool) error
}

type WebhookHandler struct {
	dispatcher dispatcher
	sender     sender
	secret     string
}

func NewWebhookHandler(d dispatcher, s sender, secret string) *WebhookHandler {
	return &WebhookHandler{dispatcher: d, sender: s, secret: secret}
}

func (h *WebhookHandler) RegisterRoutes(router gin.IRouter) {
	wrap := middleware.HandleErrorWrapper()
	router.POST("/webhook", middleware.WebhookSecret(h.secret), wrap(h.handleUpdate))
}

// @Summary Telegram webhook
// @Description Receives bot updates. Requires the X-Telegram-Bot-Api-Secret-Token header.
// @Tags bot
// @Accept json
// @Produce json
// @Param update body telegram.Update true "Telegram update"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /webhook [post]
func (h *WebhookHandler) handleUpdate(c *gin.Context) {
	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		_ = c.Error(errors.NewValidationError("update", "invalid JSON"))
		return
	}

	req, ok := models.Normalize(update)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	ctx := c.Request.Context()
	reply := h.dispatcher.Dispatch(ctx, req)

	// Delivery failures are logged but still acknowledged: a non-2xx makes
	// Telegram redeliver the update and the action would run twice.
	if req.Kind == models.KindCallback {
		if err := h.sender.AnswerCallbackQuery(ctx, req.CallbackID, reply.Toast, reply.Alert); err != nil {
			logger.Warn().Err(err).Int64("user_id", req.UserID).Msg("Failed to answer callback query")
		}
	}
	if reply.Text != "" {
		if _, err := h.sender.SendMessage(ctx, req.ChatID, reply.Text, reply.Keyboard); err != nil {
			logger.Error().Err(err).Int64("chat_id", req.ChatID).Msg("Failed to send bot reply")
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
