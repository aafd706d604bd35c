package models

import "time"

const (
	DailyBonusBase         int64 = 5
	DailyBonusPerStreakDay int64 = 2
)

const dateLayout = "2006-01-02"

// UserPoints is a user's ledger row. A missing row means a zero balance.
type UserPoints struct {
	UserID         int64      `json:"user_id"`
	Points         int64      `json:"points"`
	LastDailyBonus *time.Time `json:"last_daily_bonus,omitempty"`
	StreakDays     int        `json:"streak_days"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type BonusStatus string

const (
	BonusStatusSuccess        BonusStatus = "success"
	BonusStatusAlreadyClaimed BonusStatus = "already_claimed"
)

// DailyBonusResult describes the outcome of a daily bonus claim.
type DailyBonusResult struct {
	Status        BonusStatus `json:"status"`
	PointsAwarded int64       `json:"points_awarded"`
	Streak        int         `json:"streak"`
	Balance       int64       `json:"balance"`
	Day           time.Time   `json:"day"`
	NextBonus     time.Time   `json:"next_bonus"`
}

// BalanceResponse is returned by the Mini App API.
type BalanceResponse struct {
	UserID     int64 `json:"user_id"`
	Points     int64 `json:"points"`
	StreakDays int   `json:"streak_days"`
}

// CivilDate truncates t to its calendar day in t's own location and returns
// that day as UTC midnight, so dates from different zones compare by value.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a civil date for a DATE column.
func FormatDate(day time.Time) string {
	return CivilDate(day).Format(dateLayout)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(CivilDate(b).Sub(CivilDate(a)).Hours() / 24)
}

// BonusForStreak is the number of points awarded on a given streak day.
func BonusForStreak(streak int) int64 {
	return DailyBonusBase + DailyBonusPerStreakDay*int64(streak)
}

// DecideDailyBonus computes the daily bonus outcome for state on day today.
// today must already be a civil date in the ledger's time zone. Balance is
// left to the caller.
func DecideDailyBonus(state UserPoints, today time.Time) DailyBonusResult {
	today = CivilDate(today)
	next := today.AddDate(0, 0, 1)

	streak := 1
	if state.LastDailyBonus != nil {
		switch gap := DaysBetween(*state.LastDailyBonus, today); {
		case gap <= 0:
			return DailyBonusResult{
				Status:    BonusStatusAlreadyClaimed,
				Streak:    state.StreakDays,
				Balance:   state.Points,
				Day:       today,
				NextBonus: next,
			}
		case gap == 1:
			streak = state.StreakDays + 1
		}
	}

	award := BonusForStreak(streak)
	return DailyBonusResult{
		Status:        BonusStatusSuccess,
		PointsAwarded: award,
		Streak:        streak,
		Balance:       state.Points + award,
		Day:           today,
		NextBonus:     next,
	}
}
