package model

import "time"

// Category groups tasks by area (work, health, study, etc.).
// Position is insertion-ordered: max(position)+1 at creation.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_user_category_name,unique" json:"userId"`
	Name      string    `gorm:"index:idx_user_category_name,unique" json:"name"`
	Color     string    `json:"color,omitempty"`
	IsSystem  bool      `gorm:"default:false" json:"isSystem"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
