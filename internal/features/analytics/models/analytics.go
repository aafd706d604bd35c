package models

import (
	"fmt"
	"math"
	"time"
)

// Window is a named look-back period for rollups.
type Window struct {
	Key      string        `json:"key"`
	Duration time.Duration `json:"-"`
}

var windows = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

const DefaultWindow = "7d"

// ParseWindow resolves a window key. ok is false for unknown keys.
func ParseWindow(key string) (Window, bool) {
	d, ok := windows[key]
	if !ok {
		return Window{}, false
	}
	return Window{Key: key, Duration: d}, true
}

// Since returns the start of the window ending at now.
func (w Window) Since(now time.Time) time.Time {
	return now.Add(-w.Duration)
}

type DownloadStats struct {
	TimeRange          string  `json:"time_range"`
	TotalDownloads     int64   `json:"total_downloads"`
	CompletedDownloads int64   `json:"completed_downloads"`
	TotalSizeBytes     int64   `json:"total_size_bytes"`
	AverageSizeBytes   float64 `json:"average_size_bytes"`
	TotalSize          string  `json:"total_size"`
	AverageSize        string  `json:"average_size"`
	SuccessRate        float64 `json:"success_rate"`
}

type PlatformCount struct {
	Platform  string `json:"platform"`
	Downloads int64  `json:"downloads"`
}

type PlatformShare struct {
	Platform   string  `json:"platform"`
	Downloads  int64   `json:"downloads"`
	Percentage float64 `json:"percentage"`
}

type PlatformDistribution struct {
	TimeRange string          `json:"time_range"`
	Total     int64           `json:"total"`
	Platforms []PlatformShare `json:"platforms"`
}

type DailyCount struct {
	Date      string `json:"date"`
	Downloads int64  `json:"downloads"`
}

type StorageUsage struct {
	TotalBytes   int64   `json:"total_bytes"`
	AverageBytes float64 `json:"average_bytes"`
	Total        string  `json:"total"`
	Average      string  `json:"average"`
}

type UserActivity struct {
	UserID           int64        `json:"user_id"`
	TotalDownloads   int64        `json:"total_downloads"`
	LastActivity     *time.Time   `json:"last_activity,omitempty"`
	FavoritePlatform string       `json:"favorite_platform,omitempty"`
	Storage          StorageUsage `json:"storage_usage"`
	DailyTrend       []DailyCount `json:"daily_trend"`
}

type RewardPopularity struct {
	RewardID int64  `json:"reward_id"`
	Name     string `json:"name"`
	Claims   int64  `json:"claims"`
}

type PointsQuartile struct {
	Quartile int     `json:"quartile"`
	Users    int64   `json:"users"`
	Min      int64   `json:"min"`
	Max      int64   `json:"max"`
	Average  float64 `json:"average"`
}

type RewardAnalytics struct {
	TopRewards        []RewardPopularity `json:"top_rewards"`
	Quartiles         []PointsQuartile   `json:"points_quartiles"`
	RedeemedPoints    int64              `json:"redeemed_points"`
	OutstandingPoints int64              `json:"outstanding_points"`
	RedemptionRate    float64            `json:"redemption_rate"`
}

type SystemHealth struct {
	ActiveUsers       int64   `json:"active_users"`
	TotalUsers        int64   `json:"total_users"`
	LogEvents         int64   `json:"log_events"`
	ErrorEvents       int64   `json:"error_events"`
	ErrorRate         float64 `json:"error_rate"`
	TotalStorageBytes int64   `json:"total_storage_bytes"`
	TotalStorage      string  `json:"total_storage"`
	DailyAverage      string  `json:"daily_average_storage"`
}

// Percent returns part/total as a percentage rounded to two decimals, or 0
// when total is zero.
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatBytes renders a size for humans ("0 MB", "512.00 KB", "1.50 GB").
func FormatBytes(n float64) string {
	if n <= 0 {
		return "0 MB"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := 0
	for n >= 1024 && i < len(units)-1 {
		n /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", n, units[i])
}
