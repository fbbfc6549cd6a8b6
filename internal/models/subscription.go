package models

import "time"

// SubscriptionPlan is a purchasable tier with a monthly swap allowance.
type SubscriptionPlan struct {
	ID                int64   `json:"pk"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	SwapLimitPerMonth int     `json:"swap_limit_per_month"`
	PrioritySupport   bool    `json:"priority_support"`
	IsActive          bool    `json:"is_active"`
}

// UserSubscription ties a consumer to a plan for a bounded period.
type UserSubscription struct {
	ID        int64            `json:"pk"`
	UserID    int64            `json:"-"`
	Plan      SubscriptionPlan `json:"plan"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	IsActive  bool             `json:"is_active"`
}

// Expired reports whether the subscription period has ended.
func (s *UserSubscription) Expired(now time.Time) bool {
	return now.After(s.EndDate)
}
