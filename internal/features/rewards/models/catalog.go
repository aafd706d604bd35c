package models

import "sort"

type Category string

const (
	CategoryFeature Category = "feature"
	CategoryStorage Category = "storage"
	CategoryBadge   Category = "badge"
)

// Reward is a catalog entry. Its ID is also its price in points.
type Reward struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	DurationDays int      `json:"duration_days"`
	Category     Category `json:"category"`
}

// Cost returns the number of points the reward is bought for.
func (r Reward) Cost() int64 {
	return r.ID
}

const (
	RewardNoQueue      int64 = 50
	RewardLongerVideos int64 = 100
	RewardVIPQuality   int64 = 200
	RewardExtraStorage int64 = 500
	RewardGold         int64 = 1000
)

var catalog = map[int64]Reward{
	RewardNoQueue:      {ID: RewardNoQueue, Name: "No conversion queue", DurationDays: 7, Category: CategoryFeature},
	RewardLongerVideos: {ID: RewardLongerVideos, Name: "Longer videos", DurationDays: 7, Category: CategoryFeature},
	RewardVIPQuality:   {ID: RewardVIPQuality, Name: "VIP quality (4K)", DurationDays: 7, Category: CategoryFeature},
	RewardExtraStorage: {ID: RewardExtraStorage, Name: "100MB extra storage", DurationDays: 7, Category: CategoryStorage},
	RewardGold:         {ID: RewardGold, Name: "Gold membership", DurationDays: 7, Category: CategoryBadge},
}

func Lookup(id int64) (Reward, bool) {
	r, ok := catalog[id]
	return r, ok
}

// All returns the catalog ordered by cost.
func All() []Reward {
	rewards := make([]Reward, 0, len(catalog))
	for _, r := range catalog {
		rewards = append(rewards, r)
	}
	sort.Slice(rewards, func(i, j int) bool { return rewards[i].ID < rewards[j].ID })
	return rewards
}
