package service

import (
	"context"

	analyticsmodels "videobot-backend/internal/features/analytics/models"
	downloadmodels "videobot-backend/internal/features/downloads/models"
	downloadservice "videobot-backend/internal/features/downloads/service"
	pointsmodels "videobot-backend/internal/features/points/models"
	rewardmodels "videobot-backend/internal/features/rewards/models"
	syslogmodels "videobot-backend/internal/features/syslog/models"
	usermodels "videobot-backend/internal/features/user/models"
)

type UserService interface {
	GetOrCreate(ctx context.Context, id int64, username, firstName, lastName, languageCode string) (*usermodels.User, error)
	IsAdmin(userID int64) bool
	GetSettings(ctx context.Context, userID int64) (*usermodels.UserSettings, error)
	UpdateSettings(ctx context.Context, userID int64, update usermodels.SettingsUpdate) (*usermodels.UserSettings, error)
}

type PointsService interface {
	GetBalance(ctx context.Context, userID int64) (*pointsmodels.UserPoints, error)
	DailyBonus(ctx context.Context, userID int64) (*pointsmodels.DailyBonusResult, error)
}

type RewardsService interface {
	Catalog() []rewardmodels.Reward
	Claim(ctx context.Context, userID, rewardID int64) (*rewardmodels.ClaimResult, error)
	ListActive(ctx context.Context, userID int64) ([]*rewardmodels.ActiveReward, error)
	HasActive(ctx context.Context, userID, rewardID int64) (bool, error)
}

type DownloadService interface {
	History(ctx context.Context, userID int64, limit int) ([]*downloadmodels.Download, error)
	RequestDownload(ctx context.Context, req downloadservice.DownloadRequest) (*downloadmodels.Job, error)
}

type AnalyticsService interface {
	DownloadStats(ctx context.Context, window string) (*analyticsmodels.DownloadStats, error)
	PlatformDistribution(ctx context.Context, window string) (*analyticsmodels.PlatformDistribution, error)
	SystemHealth(ctx context.Context) (*analyticsmodels.SystemHealth, error)
}

type EventRecorder interface {
	RecordUser(ctx context.Context, event syslogmodels.EventType, userID int64, description string)
	Recent(ctx context.Context, event syslogmodels.EventType, limit int) ([]*syslogmodels.SystemLog, error)
}
