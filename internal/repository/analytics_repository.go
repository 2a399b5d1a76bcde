package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"time-planner/internal/model"
)

// AnalyticsRepository stores the weekly aggregate projections.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// FindByWeek loads the aggregate for (user, weekStart). Returns
// gorm.ErrRecordNotFound when none exists; callers decide whether
// that means "initialize" (write path) or "all zeros" (read path).
func (r *AnalyticsRepository) FindByWeek(ctx context.Context, userID uint, weekStart string) (*model.WeeklyAnalytics, error) {
	var analytics model.WeeklyAnalytics
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		First(&analytics).Error; err != nil {
		return nil, err
	}
	return &analytics, nil
}

// Save creates or updates the aggregate. Last write wins: there is no
// version column, concurrent writers for the same week may race.
func (r *AnalyticsRepository) Save(ctx context.Context, analytics *model.WeeklyAnalytics) error {
	if err := r.db.WithContext(ctx).Save(analytics).Error; err != nil {
		return fmt.Errorf("save analytics: %w", err)
	}
	return nil
}
