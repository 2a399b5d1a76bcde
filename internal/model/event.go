package model

import "time"

// Event sources recognized on calendar events.
const (
	EventSourceManual = "manual"
	EventSourceICS    = "ics"
)

// Event is a calendar entry with a mandatory UTC interval. Events
// carry no category; their day contribution is computed by clamping
// the interval to the day window.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"userId"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	Start     time.Time `gorm:"index" json:"start"`
	End       time.Time `gorm:"index" json:"end"`
	AllDay    bool      `gorm:"default:false" json:"allDay"`
	Notes     string    `json:"notes,omitempty"`
	Source    string    `gorm:"default:manual" json:"source"`
	ICSUID    string    `json:"icsUid,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
