package model

import "time"

// CategoryMinutes is a per-category minute total. CategoryID is a
// string so the "uncategorized" sentinel fits alongside numeric IDs.
// Minutes is fractional in weekly-trend averages.
type CategoryMinutes struct {
	CategoryID string  `json:"categoryId"`
	Name       string  `json:"name"`
	Minutes    float64 `json:"minutes"`
}

// DailyAnalytics is one day's slice of a weekly aggregate.
type DailyAnalytics struct {
	Date              string            `json:"date"`
	SpentMin          int               `json:"spentMin"`
	TaskMinutes       int               `json:"taskMinutes"`
	EventMinutes      int               `json:"eventMinutes"`
	ProductiveMinutes int               `json:"productiveMinutes"`
	ByCategory        []CategoryMinutes `json:"byCategory,omitempty"`
}

// FocusRatio splits the week between active and rest minutes.
// RestMin is reserved and currently always zero.
type FocusRatio struct {
	ActiveMin float64 `json:"activeMin"`
	RestMin   float64 `json:"restMin"`
}

// WeeklyAnalytics is a cached per-user-per-week projection over task
// and event records, keyed by the Monday date string. It is derived
// data: rebuildable at any time by the aggregation service, and never
// mutated by task or event edits directly.
type WeeklyAnalytics struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       uint              `gorm:"index:idx_user_week,unique" json:"userId"`
	WeekStart    string            `gorm:"index:idx_user_week,unique" json:"weekStart"`
	Daily        []DailyAnalytics  `gorm:"serializer:json" json:"daily"`
	TotalMinutes int               `json:"totalMinutes"`
	ByCategory   []CategoryMinutes `gorm:"serializer:json" json:"byCategory"`
	FocusRatio   FocusRatio        `gorm:"serializer:json" json:"focusRatio"`
	Streak       int               `json:"streak"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}
