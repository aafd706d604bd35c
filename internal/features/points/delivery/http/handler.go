package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/middleware"
	"videobot-backend/internal/features/points/models"
)

type pointsService interface {
	GetBalance(ctx context.Context, userID int64) (*models.UserPoints, error)
	DailyBonus(ctx context.Context, userID int64) (*models.DailyBonusResult, error)
}

type PointsHandler struct {
	service pointsService
}

func NewPointsHandler(service pointsService) *PointsHandler {
	return &PointsHandler{service: service}
}

func (h *PointsHandler) RegisterRoutes(router *gin.RouterGroup) {
	wrap := middleware.HandleErrorWrapper()

	points := router.Group("/points")
	{
		points.GET("/me", wrap(h.getMyPoints))
		points.POST("/daily", wrap(h.claimDaily))
	}
}

// @Summary Get my points
// @Description Current balance and daily bonus streak of the authenticated user
// @Tags points
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.BalanceResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /points/me [get]
func (h *PointsHandler) getMyPoints(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		_ = c.Error(errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	p, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.BalanceResponse{
		UserID:     p.UserID,
		Points:     p.Points,
		StreakDays: p.StreakDays,
	})
}

// @Summary Claim daily bonus
// @Description Awards 5 + 2*streak points once per calendar day
// @Tags points
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.DailyBonusResult
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /points/daily [post]
func (h *PointsHandler) claimDaily(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		_ = c.Error(errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	result, err := h.service.DailyBonus(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
