package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/middleware"
	"videobot-backend/internal/features/analytics/models"
)

type analyticsService interface {
	DownloadStats(ctx context.Context, window string) (*models.DownloadStats, error)
	PlatformDistribution(ctx context.Context, window string) (*models.PlatformDistribution, error)
	UserActivity(ctx context.Context, userID int64) (*models.UserActivity, error)
	RewardAnalytics(ctx context.Context, topN int) (*models.RewardAnalytics, error)
	SystemHealth(ctx context.Context) (*models.SystemHealth, error)
}

type AnalyticsHandler struct {
	service  analyticsService
	adminIDs []int64
}

func NewAnalyticsHandler(service analyticsService, adminIDs []int64) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, adminIDs: adminIDs}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	wrap := middleware.HandleErrorWrapper()

	analytics := router.Group("/analytics")
	analytics.Use(middleware.RequireAdmin(h.adminIDs))
	{
		analytics.GET("/downloads", wrap(h.downloads))
		analytics.GET("/platforms", wrap(h.platforms))
		analytics.GET("/users/:id", wrap(h.user))
		analytics.GET("/rewards", wrap(h.rewards))
		analytics.GET("/health", wrap(h.health))
	}
}

// @Summary Download statistics
// @Tags analytics
// @Produce json
// @Security TelegramInitData
// @Param range query string false "Window" Enums(24h, 7d, 30d)
// @Success 200 {object} models.DownloadStats
// @Failure 400 {object} middleware.ErrorResponse "Invalid time range"
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse "Analytics timeout"
// @Router /analytics/downloads [get]
func (h *AnalyticsHandler) downloads(c *gin.Context) {
	stats, err := h.service.DownloadStats(c.Request.Context(), c.DefaultQuery("range", models.DefaultWindow))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Platform distribution
// @Tags analytics
// @Produce json
// @Security TelegramInitData
// @Param range query string false "Window" Enums(24h, 7d, 30d)
// @Success 200 {object} models.PlatformDistribution
// @Failure 400 {object} middleware.ErrorResponse
// @Router /analytics/platforms [get]
func (h *AnalyticsHandler) platforms(c *gin.Context) {
	dist, err := h.service.PlatformDistribution(c.Request.Context(), c.DefaultQuery("range", models.DefaultWindow))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dist)
}

// @Summary User activity
// @Tags analytics
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Telegram user ID"
// @Success 200 {object} models.UserActivity
// @Router /analytics/users/{id} [get]
func (h *AnalyticsHandler) user(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(errors.NewValidationError("id", "must be an integer"))
		return
	}

	activity, err := h.service.UserActivity(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

// @Summary Reward analytics
// @Tags analytics
// @Produce json
// @Security TelegramInitData
// @Param top query int false "Number of top rewards (default 5)"
// @Success 200 {object} models.RewardAnalytics
// @Router /analytics/rewards [get]
func (h *AnalyticsHandler) rewards(c *gin.Context) {
	top := 0
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			_ = c.Error(errors.NewValidationError("top", "must be a positive integer"))
			return
		}
		top = n
	}

	ra, err := h.service.RewardAnalytics(c.Request.Context(), top)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ra)
}

// @Summary System health
// @Tags analytics
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.SystemHealth
// @Router /analytics/health [get]
func (h *AnalyticsHandler) health(c *gin.Context) {
	health, err := h.service.SystemHealth(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, health)
}
