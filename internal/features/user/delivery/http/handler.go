package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/middleware"
	"videobot-backend/internal/features/user/models"
)

type userService interface {
	GetUser(ctx context.Context, id int64) (*models.UserResponse, error)
	UpdateSettings(ctx context.Context, userID int64, update models.SettingsUpdate) (*models.UserSettings, error)
}

type UserHandler struct {
	service userService
}

func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	wrap := middleware.HandleErrorWrapper()

	users := router.Group("/users")
	{
		users.GET("/me", wrap(h.getMe))
		users.PUT("/me/settings", wrap(h.updateSettings))
	}
}

// @Summary Get current user
// @Description Profile and settings of the user identified by Telegram init data
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		_ = c.Error(errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update my settings
// @Tags users
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param settings body models.SettingsUpdate true "Fields to change"
// @Success 200 {object} models.UserSettings
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/settings [put]
func (h *UserHandler) updateSettings(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		_ = c.Error(errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	var update models.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		_ = c.Error(errors.NewValidationError("body", err.Error()))
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), userID, update)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
