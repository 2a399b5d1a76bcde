package service

import (
	"context"
	"errors"
	"regexp"

	"gorm.io/gorm"

	"time-planner/internal/model"
	"time-planner/internal/repository"
)

const maxCategoryNameLen = 40

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryInput represents data required to create a category.
type CategoryInput struct {
	Name  string
	Color string
}

// CategoryUpdate is the allow-listed set of mutable category fields.
type CategoryUpdate struct {
	Name     *string
	Color    *string
	Position *int
}

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, user *model.User) ([]model.Category, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

// Create validates the name and optional color and assigns the next
// position in insertion order.
func (s *CategoryService) Create(ctx context.Context, user *model.User, input CategoryInput) (*model.Category, error) {
	if input.Name == "" || len(input.Name) > maxCategoryNameLen {
		return nil, invalid("name", "name must be 1-40 characters")
	}
	if input.Color != "" && !colorPattern.MatchString(input.Color) {
		return nil, invalid("color", "expected #RRGGBB")
	}

	if _, err := s.repo.FindByName(ctx, user.ID, input.Name); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	position, err := s.repo.NextPosition(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	category := model.Category{
		UserID:   user.ID,
		Name:     input.Name,
		Color:    input.Color,
		Position: position,
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, user *model.User, categoryID uint, update CategoryUpdate) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, user.ID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if update.Name != nil && *update.Name != category.Name {
		if *update.Name == "" || len(*update.Name) > maxCategoryNameLen {
			return nil, invalid("name", "name must be 1-40 characters")
		}
		if _, err := s.repo.FindByName(ctx, user.ID, *update.Name); err == nil {
			return nil, ErrConflict
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		category.Name = *update.Name
	}
	if update.Color != nil {
		if *update.Color != "" && !colorPattern.MatchString(*update.Color) {
			return nil, invalid("color", "expected #RRGGBB")
		}
		category.Color = *update.Color
	}
	if update.Position != nil {
		category.Position = *update.Position
	}

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, user *model.User, categoryID uint) error {
	err := s.repo.Delete(ctx, user.ID, categoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
