package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"klimarechner/internal/models"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetByName(ctx context.Context, name string) (*models.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) List(ctx context.Context, limit, offset int) ([]*models.Item, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemRepository) ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Item, error) {
	args := m.Called(ctx, categoryID, limit, offset)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemRepository) IncrementCount(ctx context.Context, id int64, delta int) (*models.Item, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) TotalSavings(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetSummary(ctx context.Context) (models.JSONB, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.JSONB), args.Error(1)
}

func (m *MockCacheService) SetSummary(ctx context.Context, summary models.JSONB, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteSummary(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockCacheService) SetItem(ctx context.Context, item *models.Item, ttl time.Duration) error {
	args := m.Called(ctx, item, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteItem(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestEquivalents(t *testing.T) {
	summary := Equivalents(100)

	assert.Equal(t, 100.0, summary["ingesamt"])
	assert.Equal(t, 585.99, summary["wieauto"])
	assert.Equal(t, 550.69, summary["wieflugzeug"])
	assert.Equal(t, 3659.35, summary["wiebus"])
}

func TestEquivalentsZero(t *testing.T) {
	summary := Equivalents(0)

	assert.Equal(t, 0.0, summary["ingesamt"])
	assert.Equal(t, 0.0, summary["wieauto"])
	assert.Equal(t, 0.0, summary["wieflugzeug"])
	assert.Equal(t, 0.0, summary["wiebus"])
}

func TestSummaryUsesCache(t *testing.T) {
	items := &MockItemRepository{}
	cache := &MockCacheService{}
	svc := NewItemService(items, cache, NewAuditService(&MockAuditLogsRepository{}))
	ctx := context.Background()

	cached := models.JSONB{"ingesamt": 42.0}
	cache.On("GetSummary", ctx).Return(cached, nil)

	summary, err := svc.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, cached, summary)
	items.AssertNotCalled(t, "TotalSavings", mock.Anything)
}

func TestSummaryRecomputesOnCacheMiss(t *testing.T) {
	items := &MockItemRepository{}
	cache := &MockCacheService{}
	svc := NewItemService(items, cache, NewAuditService(&MockAuditLogsRepository{}))
	ctx := context.Background()

	cache.On("GetSummary", ctx).Return(nil, errors.New("redis: nil"))
	items.On("TotalSavings", ctx).Return(100.0, nil)
	cache.On("SetSummary", ctx, mock.AnythingOfType("models.JSONB"), summaryTTL).Return(nil)

	summary, err := svc.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, summary["ingesamt"])
	assert.Equal(t, 585.99, summary["wieauto"])
	cache.AssertCalled(t, "SetSummary", ctx, mock.AnythingOfType("models.JSONB"), summaryTTL)
}

func TestItemMutationsInvalidateSummary(t *testing.T) {
	items := &MockItemRepository{}
	cache := &MockCacheService{}
	svc := NewItemService(items, cache, NewAuditService(&MockAuditLogsRepository{}))
	ctx := context.Background()

	item := &models.Item{ID: 1, CategoryID: 2, Name: "Becher", Count: 3, BaseCO2: 0.25}
	items.On("IncrementCount", ctx, int64(1), 1).Return(item, nil)
	cache.On("DeleteItem", ctx, int64(1)).Return(nil)
	cache.On("DeleteSummary", ctx).Return(nil)

	updated, err := svc.IncrementCount(ctx, 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, item, updated)
	cache.AssertCalled(t, "DeleteSummary", ctx)
	cache.AssertCalled(t, "DeleteItem", ctx, int64(1))
}

func TestItemSavings(t *testing.T) {
	item := &models.Item{Count: 4, BaseCO2: 0.25}
	assert.Equal(t, 1.0, item.Savings())
}
