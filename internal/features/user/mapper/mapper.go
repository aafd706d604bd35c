package mapper

import "videobot-backend/internal/features/user/models"

// ToUserResponse maps User and its settings to the API view.
func ToUserResponse(user *models.User, settings *models.UserSettings) *models.UserResponse {
	return &models.UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		IsAdmin:        user.IsAdmin,
		JoinedAt:       user.JoinedAt,
		LastActivityAt: user.LastActivityAt,
		Settings:       settings,
	}
}
