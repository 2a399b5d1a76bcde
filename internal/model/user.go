package model

import "time"

// User is an account with planner preferences.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex" json:"username"`
	Email          string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Timezone       string    `gorm:"default:Asia/Ho_Chi_Minh" json:"timezone"`
	DailyBudgetMin int       `gorm:"default:720" json:"dailyBudgetMin"`
	Theme          string    `gorm:"default:system" json:"theme"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
