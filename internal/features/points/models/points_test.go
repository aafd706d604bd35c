package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBonusForStreak(t *testing.T) {
	assert.Equal(t, int64(7), BonusForStreak(1))
	assert.Equal(t, int64(9), BonusForStreak(2))
	assert.Equal(t, int64(25), BonusForStreak(10))
}

func TestDecideDailyBonus(t *testing.T) {
	today := day(2026, 10, 17)
	yesterday := day(2026, 10, 16)
	lastWeek := day(2026, 10, 10)

	tests := []struct {
		name   string
		state  UserPoints
		status BonusStatus
		streak int
		award  int64
	}{
		{"first claim", UserPoints{Points: 0}, BonusStatusSuccess, 1, 7},
		{"consecutive day", UserPoints{Points: 10, LastDailyBonus: &yesterday, StreakDays: 3}, BonusStatusSuccess, 4, 13},
		{"gap resets streak", UserPoints{Points: 10, LastDailyBonus: &lastWeek, StreakDays: 6}, BonusStatusSuccess, 1, 7},
		{"same day", UserPoints{Points: 10, LastDailyBonus: &today, StreakDays: 2}, BonusStatusAlreadyClaimed, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecideDailyBonus(tt.state, today)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.streak, res.Streak)
			assert.Equal(t, tt.award, res.PointsAwarded)
			assert.Equal(t, tt.state.Points+tt.award, res.Balance)
			assert.Equal(t, day(2026, 10, 18), res.NextBonus)
		})
	}
}

func TestCivilDateIgnoresZoneOffset(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 10, 17, 23, 59, 0, 0, loc)
	assert.Equal(t, day(2026, 10, 17), CivilDate(local))
	assert.Equal(t, 1, DaysBetween(day(2026, 10, 16), local))
}
