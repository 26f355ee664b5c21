package iocache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureTime = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

type fixture struct {
	units   []schema.Unit
	scores  []schema.DimensionScore
	heatmap []schema.HeatmapCell
	alerts  []schema.Alert
	news    []schema.NewsItem
}

func newFixture() fixture {
	return fixture{
		units: []schema.Unit{
			{ID: "u-tax", Name: "Tax", Category: "Finance", Description: "Tax filings"},
			{ID: "u-aml", Name: "AML", Category: "Compliance", Description: "Anti money laundering"},
			{ID: "u-ops", Name: "Branch Ops", Category: "Operations", Description: "Retail branches"},
		},
		scores: []schema.DimensionScore{
			{ID: "s-2", UnitID: "u-tax", Dimension: schema.Fraud, Score: 73, PreviousScore: 70, PredictedScore: 75, Confidence: 0.81, Timestamp: fixtureTime},
			{ID: "s-1", UnitID: "u-tax", Dimension: schema.Financial, Score: 40, PreviousScore: 42.5, PredictedScore: 39, Confidence: 0.45, Timestamp: fixtureTime},
		},
		heatmap: []schema.HeatmapCell{
			{ID: "h-1", UnitID: "u-tax", Dimension: schema.Fraud, Value: 73, Trend: schema.TrendUp, Timestamp: fixtureTime},
			{ID: "h-2", UnitID: "u-tax", Dimension: schema.Financial, Value: 40, Trend: schema.TrendStable, Timestamp: fixtureTime},
		},
		alerts: []schema.Alert{
			{
				ID: "a-1", UnitID: "u-tax", Severity: schema.HighSeverity,
				Title: "Fraud risk rising for Tax", Description: "Average score 73.0 vs baseline 60.0 (+13.0).",
				Dimension: schema.Fraud, Timestamp: fixtureTime,
				AverageScore: 73, BaselineScore: 60, Delta: 13,
				ComponentBreakdown: []schema.ComponentContribution{
					{Component: schema.BaselineComponent, Value: 18.5},
					{Component: schema.ControlHealthComponent, Value: 20.1},
				},
				TopDimensions: []schema.DimensionValue{{Dimension: schema.Fraud, Score: 73}},
			},
		},
		news: []schema.NewsItem{
			{
				ID: "n-1", Date: "2026-03-01", Source: "Wire", Headline: "Regulator fines bank",
				FullText: "Full story", Summary: "Fine issued", Category: "Regulatory",
				Sentiment: schema.NegativeSentiment, Sector: "Banking", RiskType: "Compliance Risk",
			},
		},
	}
}

func (f fixture) save(t *testing.T, store contract.EntityStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveUnits(ctx, f.units))
	require.NoError(t, store.SaveScores(ctx, f.scores))
	require.NoError(t, store.SaveHeatmap(ctx, f.heatmap))
	require.NoError(t, store.SaveAlerts(ctx, f.alerts))
	require.NoError(t, store.SaveNews(ctx, f.news))
}

// storeFactories builds every backend that runs without external services.
func storeFactories(t *testing.T) map[string]func() contract.EntityStore {
	return map[string]func() contract.EntityStore{
		"memory": func() contract.EntityStore {
			store, err := NewEntityStore(schema.MemoryBackend, "")
			require.NoError(t, err)
			return store
		},
		"sqlite": func() contract.EntityStore {
			store, err := NewEntityStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "auditradar.db"))
			require.NoError(t, err)
			return store
		},
	}
}

func TestEntityStore_RoundTrip(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore()
			defer func() { _ = store.Close() }()

			f := newFixture()
			f.save(t, store)

			units, err := store.ListUnits(ctx)
			require.NoError(t, err)
			assert.Equal(t, f.units, units, "units should come back in seed order")

			scores, err := store.ListScores(ctx)
			require.NoError(t, err)
			require.Len(t, scores, 2)
			assert.Equal(t, "s-2", scores[0].ID, "order follows insertion, not ID")
			assert.Equal(t, f.scores[0], scores[0])

			heatmap, err := store.ListHeatmap(ctx)
			require.NoError(t, err)
			assert.Equal(t, f.heatmap, heatmap)

			alerts, err := store.ListAlerts(ctx)
			require.NoError(t, err)
			require.Len(t, alerts, 1)
			assert.Equal(t, f.alerts[0], alerts[0])

			news, err := store.ListNews(ctx)
			require.NoError(t, err)
			assert.Equal(t, f.news, news)
		})
	}
}

func TestEntityStore_Get(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore()
			defer func() { _ = store.Close() }()

			f := newFixture()
			f.save(t, store)

			unit, err := store.GetUnit(ctx, "u-aml")
			require.NoError(t, err)
			assert.Equal(t, "AML", unit.Name)

			score, err := store.GetScore(ctx, "s-1")
			require.NoError(t, err)
			assert.Equal(t, schema.Financial, score.Dimension)
			assert.True(t, fixtureTime.Equal(score.Timestamp))

			cell, err := store.GetHeatmapCell(ctx, "h-1")
			require.NoError(t, err)
			assert.Equal(t, schema.TrendUp, cell.Trend)

			alert, err := store.GetAlert(ctx, "a-1")
			require.NoError(t, err)
			assert.Equal(t, f.alerts[0].ComponentBreakdown, alert.ComponentBreakdown)

			item, err := store.GetNewsItem(ctx, "n-1")
			require.NoError(t, err)
			assert.Equal(t, schema.NegativeSentiment, item.Sentiment)
		})
	}
}

func TestEntityStore_NotFound(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore()
			defer func() { _ = store.Close() }()

			_, err := store.GetUnit(ctx, "missing")
			assert.ErrorIs(t, err, contract.ErrNotFound)
			_, err = store.GetScore(ctx, "missing")
			assert.ErrorIs(t, err, contract.ErrNotFound)
			_, err = store.GetHeatmapCell(ctx, "missing")
			assert.ErrorIs(t, err, contract.ErrNotFound)
			_, err = store.GetAlert(ctx, "missing")
			assert.ErrorIs(t, err, contract.ErrNotFound)
			_, err = store.GetNewsItem(ctx, "missing")
			assert.ErrorIs(t, err, contract.ErrNotFound)
		})
	}
}

func TestEntityStore_EmptyLists(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			defer func() { _ = store.Close() }()

			units, err := store.ListUnits(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, units, "empty lists should not be nil")
			assert.Empty(t, units)
		})
	}
}

func TestEntityStore_ResetAndStatus(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore()
			defer func() { _ = store.Close() }()

			newFixture().save(t, store)

			status, err := store.GetStatus(ctx)
			require.NoError(t, err)
			assert.True(t, status.Connected)
			assert.Equal(t, name, status.Backend)
			assert.Equal(t, int64(3), status.TableSizes[unitsTable])
			assert.Equal(t, int64(2), status.TableSizes[scoresTable])
			assert.Equal(t, int64(1), status.TableSizes[newsTable])
			if name == "sqlite" {
				assert.Equal(t, uint(5), status.Version)
			}

			require.NoError(t, store.Reset(ctx))
			status, err = store.GetStatus(ctx)
			require.NoError(t, err)
			for _, table := range allTables {
				assert.Equal(t, int64(0), status.TableSizes[table], "table %s should be empty", table)
			}

			// Reseeding after a reset reuses the same IDs
			newFixture().save(t, store)
			units, err := store.ListUnits(ctx)
			require.NoError(t, err)
			assert.Len(t, units, 3)
		})
	}
}

func TestSQLStore_PersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	store, err := NewEntityStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	newFixture().save(t, store)
	require.NoError(t, store.Close())

	reopened, err := NewEntityStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	alerts, err := reopened.ListAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, schema.HighSeverity, alerts[0].Severity)
	assert.Equal(t, []schema.DimensionValue{{Dimension: schema.Fraud, Score: 73}}, alerts[0].TopDimensions)
}

func TestSQLStore_DuplicateIDFails(t *testing.T) {
	ctx := context.Background()
	store, err := NewEntityStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "dup.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	units := []schema.Unit{{ID: "same", Name: "A"}, {ID: "same", Name: "B"}}
	require.Error(t, store.SaveUnits(ctx, units))

	got, err := store.ListUnits(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "a failed batch should roll back")
}

func TestMemoryStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	newFixture().save(t, store)

	alerts, err := store.ListAlerts(ctx)
	require.NoError(t, err)
	alerts[0].ComponentBreakdown[0].Value = -1
	alerts[0].Title = "changed"

	again, err := store.ListAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 18.5, again[0].ComponentBreakdown[0].Value)
	assert.Equal(t, "Fraud risk rising for Tax", again[0].Title)
}

func TestNewEntityStoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
	}{
		{"mysql without connection", schema.MySQLBackend, ""},
		{"mysql malformed", schema.MySQLBackend, "root:secret@localhost"},
		{"postgres without dbname", schema.PostgreSQLBackend, "host=localhost"},
		{"unknown backend", schema.DatabaseBackend("oracle"), "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewEntityStore(tt.backend, tt.connStr)
			assert.Error(t, err)
			assert.Nil(t, store)
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		expected string
	}{
		{schema.SQLiteBackend, `"auditradar_units"`},
		{schema.MySQLBackend, "`auditradar_units`"},
		{schema.PostgreSQLBackend, `"auditradar_units"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteTableName(unitsTable, tt.backend))
		})
	}
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b, c) VALUES (?, ?, ?)"
	assert.Equal(t, q, rebind(q, schema.SQLiteBackend))
	assert.Equal(t, q, rebind(q, schema.MySQLBackend))
	assert.Equal(t, "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)", rebind(q, schema.PostgreSQLBackend))
}

func TestMysqlDSN(t *testing.T) {
	dsn, err := mysqlDSN("root:secret@tcp(localhost:3306)/auditradar")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}

func TestTimeScanner(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    time.Time
		wantErr bool
	}{
		{"native", fixtureTime, fixtureTime, false},
		{"text", fixtureTime.Format(time.RFC3339Nano), fixtureTime, false},
		{"bytes", []byte(fixtureTime.Format(time.RFC3339Nano)), fixtureTime, false},
		{"null", nil, time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, true},
		{"wrong type", 42, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got time.Time
			err := timeScanner{&got}.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}
