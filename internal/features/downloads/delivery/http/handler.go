package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/middleware"
	"videobot-backend/internal/features/downloads/models"
)

type downloadService interface {
	History(ctx context.Context, userID int64, limit int) ([]*models.Download, error)
	Stats(ctx context.Context, userID int64) (*models.UserStats, error)
}

type DownloadHandler struct {
	service downloadService
}

func NewDownloadHandler(service downloadService) *DownloadHandler {
	return &DownloadHandler{service: service}
}

func (h *DownloadHandler) RegisterRoutes(router *gin.RouterGroup) {
	wrap := middleware.HandleErrorWrapper()

	downloads := router.Group("/downloads")
	{
		downloads.GET("/me", wrap(h.history))
		downloads.GET("/me/stats", wrap(h.stats))
	}
}

// @Summary My download history
// @Tags downloads
// @Produce json
// @Security TelegramInitData
// @Param limit query int false "Max entries (default 10)"
// @Success 200 {array} models.Download
// @Failure 400 {object} middleware.ErrorResponse
// @Router /downloads/me [get]
func (h *DownloadHandler) history(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		_ = c.Error(errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			_ = c.Error(errors.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	downloads, err := h.service.History(c.Request.Context(), userID, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, downloads)
}

// @Summary My download statistics
// @Tags downloads
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.UserStats
// @Router /downloads/me/stats [get]
func (h *DownloadHandler) stats(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		_ = c.Error(errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
