package models

import "time"

type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventDownloadCompleted EventType = "download_completed"
	EventDownloadFailed    EventType = "download_failed"
	EventRewardClaimed     EventType = "reward_claimed"
	EventDailyBonus        EventType = "daily_bonus"
	EventError             EventType = "error"
	EventMaintenance       EventType = "maintenance"
)

const MaxDescriptionLength = 500

type SystemLog struct {
	ID          int64     `json:"id"`
	EventType   EventType `json:"event_type"`
	Description string    `json:"description"`
	UserID      *int64    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
