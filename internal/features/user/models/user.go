package models

import "time"

// User is a Telegram user known to the bot.
// @Description Telegram user known to the bot
type User struct {
	ID             int64     `json:"id" example:"123456789"`
	Username       string    `json:"username" example:"johndoe"`
	FirstName      string    `json:"first_name" example:"John"`
	LastName       string    `json:"last_name" example:"Doe"`
	IsAdmin        bool      `json:"is_admin"`
	JoinedAt       time.Time `json:"joined_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// UserSettings holds per-user download preferences.
type UserSettings struct {
	UserID               int64  `json:"user_id"`
	DefaultQuality       string `json:"default_quality" example:"best" enums:"best,medium,low"`
	MaxFileSizeMB        int    `json:"max_file_size_mb" example:"50"`
	Language             string `json:"language" example:"ar" enums:"ar,en"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings(userID int64, quality string, maxFileSizeMB int, language string) *UserSettings {
	return &UserSettings{
		UserID:               userID,
		DefaultQuality:       quality,
		MaxFileSizeMB:        maxFileSizeMB,
		Language:             language,
		NotificationsEnabled: true,
	}
}

// UserResponse is the public view of a user.
// @Description User with settings
type UserResponse struct {
	ID             int64         `json:"id" example:"123456789"`
	Username       string        `json:"username" example:"johndoe"`
	FirstName      string        `json:"first_name" example:"John"`
	LastName       string        `json:"last_name" example:"Doe"`
	IsAdmin        bool          `json:"is_admin"`
	JoinedAt       time.Time     `json:"joined_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
	Settings       *UserSettings `json:"settings,omitempty"`
}

// SettingsUpdate is a partial settings change. Nil fields are left as is.
type SettingsUpdate struct {
	DefaultQuality       *string `json:"default_quality,omitempty" binding:"omitempty,oneof=best medium low" enums:"best,medium,low"`
	MaxFileSizeMB        *int    `json:"max_file_size_mb,omitempty" binding:"omitempty,min=1"`
	Language             *string `json:"language,omitempty" binding:"omitempty,oneof=ar en" enums:"ar,en"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
}
