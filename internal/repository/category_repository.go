package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"time-planner/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID uint) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("position ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, userID uint, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// NextPosition returns max(position)+1 for the user, or 0 when the
// user has no categories yet.
func (r *CategoryRepository) NextPosition(ctx context.Context, userID uint) (int, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("position DESC").First(&category).Error
	switch {
	case err == nil:
		return category.Position + 1, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, nil
	default:
		return 0, fmt.Errorf("max position: %w", err)
	}
}

// GetOrCreate finds a category by name or creates it at the next
// position. Used by reminder conversion for the default category.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, userID uint, name string) (*model.Category, error) {
	category, err := r.FindByName(ctx, userID, name)
	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		position, err := r.NextPosition(ctx, userID)
		if err != nil {
			return nil, err
		}
		created := model.Category{UserID: userID, Name: name, Position: position, IsSystem: true}
		if err := r.Create(ctx, &created); err != nil {
			return nil, err
		}
		return &created, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

func (r *CategoryRepository) Save(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Category{})
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
