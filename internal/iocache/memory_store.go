package iocache

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

// MemoryStore keeps entities in process memory. It backs the MCP server and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	units   []schema.Unit
	scores  []schema.DimensionScore
	heatmap []schema.HeatmapCell
	alerts  []schema.Alert
	news    []schema.NewsItem
}

var _ contract.EntityStore = &MemoryStore{} // Compile-time check

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Reset removes every entity.
func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units, m.scores, m.heatmap, m.alerts, m.news = nil, nil, nil, nil, nil
	return nil
}

// SaveUnits appends units.
func (m *MemoryStore) SaveUnits(_ context.Context, units []schema.Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units = append(m.units, units...)
	return nil
}

// SaveScores appends dimension scores.
func (m *MemoryStore) SaveScores(_ context.Context, scores []schema.DimensionScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, scores...)
	return nil
}

// SaveHeatmap appends heatmap cells.
func (m *MemoryStore) SaveHeatmap(_ context.Context, cells []schema.HeatmapCell) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heatmap = append(m.heatmap, cells...)
	return nil
}

// SaveAlerts appends alerts.
func (m *MemoryStore) SaveAlerts(_ context.Context, alerts []schema.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alerts...)
	return nil
}

// SaveNews appends news items.
func (m *MemoryStore) SaveNews(_ context.Context, news []schema.NewsItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.news = append(m.news, news...)
	return nil
}

// find returns the first entity whose ID matches.
func find[T any](items []T, id string, idOf func(T) string, kind schema.EntityKind) (T, error) {
	for _, it := range items {
		if idOf(it) == id {
			return it, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", contract.ErrNotFound, kind, id)
}

// ListUnits returns a copy of every unit.
func (m *MemoryStore) ListUnits(_ context.Context) ([]schema.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]schema.Unit{}, m.units...), nil
}

// GetUnit returns one unit by ID.
func (m *MemoryStore) GetUnit(_ context.Context, id string) (schema.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.units, id, func(u schema.Unit) string { return u.ID }, schema.UnitEntity)
}

// ListScores returns a copy of every dimension score.
func (m *MemoryStore) ListScores(_ context.Context) ([]schema.DimensionScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]schema.DimensionScore{}, m.scores...), nil
}

// GetScore returns one dimension score by ID.
func (m *MemoryStore) GetScore(_ context.Context, id string) (schema.DimensionScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.scores, id, func(d schema.DimensionScore) string { return d.ID }, schema.ScoreEntity)
}

// ListHeatmap returns a copy of every heatmap cell.
func (m *MemoryStore) ListHeatmap(_ context.Context) ([]schema.HeatmapCell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]schema.HeatmapCell{}, m.heatmap...), nil
}

// GetHeatmapCell returns one heatmap cell by ID.
func (m *MemoryStore) GetHeatmapCell(_ context.Context, id string) (schema.HeatmapCell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.heatmap, id, func(c schema.HeatmapCell) string { return c.ID }, schema.HeatmapEntity)
}

// ListAlerts returns a copy of every alert.
func (m *MemoryStore) ListAlerts(_ context.Context) ([]schema.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schema.Alert, len(m.alerts))
	for i, a := range m.alerts {
		a.ComponentBreakdown = slices.Clone(a.ComponentBreakdown)
		a.TopDimensions = slices.Clone(a.TopDimensions)
		out[i] = a
	}
	return out, nil
}

// GetAlert returns one alert by ID.
func (m *MemoryStore) GetAlert(_ context.Context, id string) (schema.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.alerts, id, func(a schema.Alert) string { return a.ID }, schema.AlertEntity)
}

// ListNews returns a copy of every news item.
func (m *MemoryStore) ListNews(_ context.Context) ([]schema.NewsItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]schema.NewsItem{}, m.news...), nil
}

// GetNewsItem returns one news item by ID.
func (m *MemoryStore) GetNewsItem(_ context.Context, id string) (schema.NewsItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.news, id, func(n schema.NewsItem) string { return n.ID }, schema.NewsEntity)
}

// GetStatus reports entity counts keyed by the SQL table names.
func (m *MemoryStore) GetStatus(_ context.Context) (schema.StoreStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return schema.StoreStatus{
		Backend:   string(schema.MemoryBackend),
		Connected: true,
		TableSizes: map[string]int64{
			unitsTable:   int64(len(m.units)),
			scoresTable:  int64(len(m.scores)),
			heatmapTable: int64(len(m.heatmap)),
			alertsTable:  int64(len(m.alerts)),
			newsTable:    int64(len(m.news)),
		},
	}, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
