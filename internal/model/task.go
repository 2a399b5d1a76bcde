package model

import "time"

// Task is a planned block of time on a single local day. Date is the
// day anchor (a UTC midnight instant); Start/End, when present, are
// the exact interval and DurationMin is derived from them.
type Task struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index" json:"userId"`
	CategoryID   *uint      `gorm:"index" json:"categoryId"`
	CategoryName string     `json:"categoryName,omitempty"`
	Title        string     `json:"title"`
	Date         time.Time  `gorm:"index" json:"date"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	DurationMin  int        `json:"durationMin"`
	Done         bool       `gorm:"default:false" json:"done"`
	IsEvent      bool       `gorm:"default:false" json:"isEvent"`
	IsReminder   bool       `gorm:"default:false" json:"isReminder"`
	Carryover    bool       `gorm:"default:false" json:"carryover"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
