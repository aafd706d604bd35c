package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/middleware"
	"videobot-backend/internal/features/rewards/models"
)

type rewardsService interface {
	Catalog() []models.Reward
	Claim(ctx context.Context, userID, rewardID int64) (*models.ClaimResult, error)
	ListActive(ctx context.Context, userID int64) ([]*models.ActiveReward, error)
}

type RewardsHandler struct {
	service rewardsService
}

func NewRewardsHandler(service rewardsService) *RewardsHandler {
	return &RewardsHandler{service: service}
}

func (h *RewardsHandler) RegisterRoutes(router *gin.RouterGroup) {
	wrap := middleware.HandleErrorWrapper()

	rewards := router.Group("/rewards")
	{
		rewards.GET("", h.listCatalog)
		rewards.GET("/me", wrap(h.listMine))
		rewards.POST("/:id/claim", wrap(h.claim))
	}
}

// @Summary Reward catalog
// @Tags rewards
// @Produce json
// @Security TelegramInitData
// @Success 200 {array} models.Reward
// @Router /rewards [get]
func (h *RewardsHandler) listCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog())
}

// @Summary My active rewards
// @Description Claims that have not expired yet, oldest first
// @Tags rewards
// @Produce json
// @Security TelegramInitData
// @Success 200 {array} models.ActiveReward
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /rewards/me [get]
func (h *RewardsHandler) listMine(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		_ = c.Error(errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	active, err := h.service.ListActive(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, active)
}

// @Summary Claim a reward
// @Description Spends points on a catalog reward. Responds 409 when the balance is too low.
// @Tags rewards
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Reward ID (its cost)"
// @Success 200 {object} models.ClaimResult
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Unknown reward"
// @Failure 409 {object} middleware.ErrorResponse "Insufficient points"
// @Failure 503 {object} middleware.ErrorResponse
// @Router /rewards/{id}/claim [post]
func (h *RewardsHandler) claim(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		_ = c.Error(errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	rewardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(errors.NewValidationError("id", "must be an integer"))
		return
	}

	result, err := h.service.Claim(c.Request.Context(), userID, rewardID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if !result.Claimed() {
		_ = c.Error(errors.NewInsufficientPointsError(result.Reward.Cost(), result.Balance).
			WithDetail("shortfall", result.Shortfall))
		return
	}

	c.JSON(http.StatusOK, result)
}
