package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"klimarechner/internal/caching"
	"klimarechner/internal/models"
	"klimarechner/internal/repositories"
)

// Per-kilometre CO2 factors (kg) used to express total savings as distance
// not travelled by car, plane and bus.
const (
	carKgPerKm   = 170.65 / 1000
	planeKgPerKm = 181.59 / 1000
	busKgPerKm   = 27.33 / 1000
)

// summaryTTL bounds staleness between refresh runs.
const summaryTTL = 5 * time.Minute

// ItemService manages the reusable items whose use counts drive the savings
// figures.
type ItemService interface {
	Create(ctx context.Context, item *models.Item) error
	Get(ctx context.Context, id int64) (*models.Item, error)
	GetByName(ctx context.Context, name string) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Item, error)
	ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Item, error)
	IncrementCount(ctx context.Context, id int64, delta int) (*models.Item, error)

	// Summary returns total savings plus transport equivalents, cached
	// for summaryTTL.
	Summary(ctx context.Context) (models.JSONB, error)

	// RefreshSummary recomputes the summary and rewrites the cache.
	RefreshSummary(ctx context.Context) (models.JSONB, error)
}

type itemService struct {
	items repositories.ItemRepository
	cache caching.CacheService
	audit AuditService
}

func NewItemService(items repositories.ItemRepository, cache caching.CacheService, audit AuditService) ItemService {
	return &itemService{items: items, cache: cache, audit: audit}
}

func (s *itemService) Create(ctx context.Context, item *models.Item) error {
	if err := s.items.Create(ctx, item); err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

func (s *itemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	if cached, err := s.cache.GetItem(ctx, id); err == nil {
		return cached, nil
	}
	item, err := s.items.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetItem(ctx, item, summaryTTL); err != nil {
		log.Printf("Failed to cache item %d: %v", id, err)
	}
	return item, nil
}

func (s *itemService) GetByName(ctx context.Context, name string) (*models.Item, error) {
	item, err := s.items.GetByName(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, item *models.Item) error {
	if err := s.items.Update(ctx, item); err != nil {
		return err
	}
	s.invalidateItem(ctx, item.ID)
	s.invalidateSummary(ctx)
	return nil
}

func (s *itemService) Delete(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateItem(ctx, id)
	s.invalidateSummary(ctx)
	return nil
}

func (s *itemService) List(ctx context.Context, limit, offset int) ([]*models.Item, error) {
	return s.items.List(ctx, limit, offset)
}

func (s *itemService) ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Item, error) {
	return s.items.ListByCategory(ctx, categoryID, limit, offset)
}

func (s *itemService) IncrementCount(ctx context.Context, id int64, delta int) (*models.Item, error) {
	item, err := s.items.IncrementCount(ctx, id, delta)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.invalidateItem(ctx, id)
	s.invalidateSummary(ctx)
	return item, nil
}

func (s *itemService) Summary(ctx context.Context) (models.JSONB, error) {
	if cached, err := s.cache.GetSummary(ctx); err == nil {
		return cached, nil
	}
	return s.RefreshSummary(ctx)
}

func (s *itemService) RefreshSummary(ctx context.Context) (models.JSONB, error) {
	total, err := s.items.TotalSavings(ctx)
	if err != nil {
		return nil, err
	}
	summary := Equivalents(total)
	if err := s.cache.SetSummary(ctx, summary, summaryTTL); err != nil {
		log.Printf("Failed to cache savings summary: %v", err)
	}
	return summary, nil
}

func (s *itemService) invalidateItem(ctx context.Context, id int64) {
	if err := s.cache.DeleteItem(ctx, id); err != nil {
		log.Printf("Failed to invalidate item %d cache: %v", id, err)
	}
}

func (s *itemService) invalidateSummary(ctx context.Context) {
	if err := s.cache.DeleteSummary(ctx); err != nil {
		log.Printf("Failed to invalidate savings summary cache: %v", err)
	}
}

// Equivalents expresses a total saving in kg CO2 as kilometres not driven or
// flown, rounded to two decimals.
func Equivalents(totalCO2 float64) models.JSONB {
	return models.JSONB{
		"ingesamt":    round2(totalCO2),
		"wieauto":     round2(totalCO2 / carKgPerKm),
		"wieflugzeug": round2(totalCO2 / planeKgPerKm),
		"wiebus":      round2(totalCO2 / busKgPerKm),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
