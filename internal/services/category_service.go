package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"klimarechner/internal/models"
	"klimarechner/internal/repositories"
)

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) error
	Get(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error

	// List returns categories sorted by name, each with its items attached.
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
}

type categoryService struct {
	categories repositories.CategoryRepository
	items      repositories.ItemRepository
}

func NewCategoryService(categories repositories.CategoryRepository, items repositories.ItemRepository) CategoryService {
	return &categoryService{categories: categories, items: items}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	return s.categories.Create(ctx, category)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByCategory(ctx, id, 1000, 0)
	if err != nil {
		return nil, err
	}
	category.Items = items
	return category, nil
}

func (s *categoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	category, err := s.categories.GetByName(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByCategory(ctx, category.ID, 1000, 0)
	if err != nil {
		return nil, err
	}
	category.Items = items
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, category *models.Category) error {
	return s.categories.Update(ctx, category)
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

func (s *categoryService) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	categories, err := s.categories.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		items, err := s.items.ListByCategory(ctx, category.ID, 1000, 0)
		if err != nil {
			return nil, err
		}
		category.Items = items
	}
	return categories, nil
}
