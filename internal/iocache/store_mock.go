package iocache

import (
	"context"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/mock"
)

// MockEntityStore is a mock implementation of EntityStore for testing.
type MockEntityStore struct {
	mock.Mock
}

var _ contract.EntityStore = &MockEntityStore{} // Compile-time check

// Reset implements the EntityStore interface.
func (m *MockEntityStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// SaveUnits implements the EntityStore interface.
func (m *MockEntityStore) SaveUnits(ctx context.Context, units []schema.Unit) error {
	args := m.Called(ctx, units)
	return args.Error(0)
}

// SaveScores implements the EntityStore interface.
func (m *MockEntityStore) SaveScores(ctx context.Context, scores []schema.DimensionScore) error {
	args := m.Called(ctx, scores)
	return args.Error(0)
}

// SaveHeatmap implements the EntityStore interface.
func (m *MockEntityStore) SaveHeatmap(ctx context.Context, cells []schema.HeatmapCell) error {
	args := m.Called(ctx, cells)
	return args.Error(0)
}

// SaveAlerts implements the EntityStore interface.
func (m *MockEntityStore) SaveAlerts(ctx context.Context, alerts []schema.Alert) error {
	args := m.Called(ctx, alerts)
	return args.Error(0)
}

// SaveNews implements the EntityStore interface.
func (m *MockEntityStore) SaveNews(ctx context.Context, news []schema.NewsItem) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}

// ListUnits implements the EntityStore interface.
func (m *MockEntityStore) ListUnits(ctx context.Context) ([]schema.Unit, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]schema.Unit)
	return items, args.Error(1)
}

// GetUnit implements the EntityStore interface.
func (m *MockEntityStore) GetUnit(ctx context.Context, id string) (schema.Unit, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(schema.Unit)
	return item, args.Error(1)
}

// ListScores implements the EntityStore interface.
func (m *MockEntityStore) ListScores(ctx context.Context) ([]schema.DimensionScore, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]schema.DimensionScore)
	return items, args.Error(1)
}

// GetScore implements the EntityStore interface.
func (m *MockEntityStore) GetScore(ctx context.Context, id string) (schema.DimensionScore, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(schema.DimensionScore)
	return item, args.Error(1)
}

// ListHeatmap implements the EntityStore interface.
func (m *MockEntityStore) ListHeatmap(ctx context.Context) ([]schema.HeatmapCell, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]schema.HeatmapCell)
	return items, args.Error(1)
}

// GetHeatmapCell implements the EntityStore interface.
func (m *MockEntityStore) GetHeatmapCell(ctx context.Context, id string) (schema.HeatmapCell, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(schema.HeatmapCell)
	return item, args.Error(1)
}

// ListAlerts implements the EntityStore interface.
func (m *MockEntityStore) ListAlerts(ctx context.Context) ([]schema.Alert, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]schema.Alert)
	return items, args.Error(1)
}

// GetAlert implements the EntityStore interface.
func (m *MockEntityStore) GetAlert(ctx context.Context, id string) (schema.Alert, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(schema.Alert)
	return item, args.Error(1)
}

// ListNews implements the EntityStore interface.
func (m *MockEntityStore) ListNews(ctx context.Context) ([]schema.NewsItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]schema.NewsItem)
	return items, args.Error(1)
}

// GetNewsItem implements the EntityStore interface.
func (m *MockEntityStore) GetNewsItem(ctx context.Context, id string) (schema.NewsItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(schema.NewsItem)
	return item, args.Error(1)
}

// GetStatus implements the EntityStore interface.
func (m *MockEntityStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the EntityStore interface.
func (m *MockEntityStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
