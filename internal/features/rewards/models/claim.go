package models

import "time"

// ClaimedReward is an immutable purchase record. Whether it is active is
// derived from the current time.
type ClaimedReward struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RewardID  int64     `json:"reward_id"`
	ClaimedAt time.Time `json:"claimed_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActiveAt reports whether the claim is still in effect at now. A claim
// expiring exactly at now is no longer active.
func (c ClaimedReward) ActiveAt(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}

// ExpiryFor returns the expiration of a claim of r made at claimedAt.
func ExpiryFor(r Reward, claimedAt time.Time) time.Time {
	return claimedAt.AddDate(0, 0, r.DurationDays)
}

type ClaimStatus string

const (
	ClaimStatusClaimed            ClaimStatus = "claimed"
	ClaimStatusInsufficientPoints ClaimStatus = "insufficient_points"
)

// ClaimResult is the outcome of buying a reward. Insufficient points is an
// ordinary outcome: Shortfall says how many points are missing.
type ClaimResult struct {
	Status          ClaimStatus    `json:"status"`
	Reward          Reward         `json:"reward"`
	Claim           *ClaimedReward `json:"claim,omitempty"`
	ExpiresAt       *time.Time     `json:"expires_at,omitempty"`
	RemainingPoints int64          `json:"remaining_points"`
	Balance         int64          `json:"balance"`
	Shortfall       int64          `json:"shortfall,omitempty"`
}

func (r *ClaimResult) Claimed() bool {
	return r.Status == ClaimStatusClaimed
}

// ActiveReward is a claimed reward joined with its catalog entry.
type ActiveReward struct {
	ClaimedReward
	Name     string   `json:"name"`
	Category Category `json:"category"`
}
