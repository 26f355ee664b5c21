package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

// SQLStore implements EntityStore on a database/sql backend.
type SQLStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.EntityStore = &SQLStore{} // Compile-time check

// NewSQLStore opens a store on an already migrated database.
func NewSQLStore(backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &SQLStore{db: db, backend: backend}, nil
}

func (s *SQLStore) table(name string) string {
	return quoteTableName(name, s.backend)
}

func (s *SQLStore) query(q string) string {
	return rebind(q, s.backend)
}

// Reset removes every persisted entity.
func (s *SQLStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range allTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.table(t)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", t, err)
		}
	}
	return tx.Commit()
}

// insertAll inserts n rows with one prepared statement inside a transaction.
func (s *SQLStore) insertAll(ctx context.Context, table string, columns []string, n int, args func(i int) ([]any, error)) error {
	if n == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	q := s.query(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table(table), strings.Join(columns, ", "), placeholders))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert into %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range n {
		values, err := args(i)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// SaveUnits stores units in the given order.
func (s *SQLStore) SaveUnits(ctx context.Context, units []schema.Unit) error {
	return s.insertAll(ctx, unitsTable,
		[]string{"id", "position", "name", "category", "description"},
		len(units), func(i int) ([]any, error) {
			u := units[i]
			return []any{u.ID, i, u.Name, u.Category, u.Description}, nil
		})
}

// SaveScores stores dimension scores in the given order.
func (s *SQLStore) SaveScores(ctx context.Context, scores []schema.DimensionScore) error {
	return s.insertAll(ctx, scoresTable,
		[]string{"id", "position", "unit_id", "dimension", "score", "previous_score", "predicted_score", "confidence", "created_at"},
		len(scores), func(i int) ([]any, error) {
			d := scores[i]
			return []any{
				d.ID, i, d.UnitID, string(d.Dimension), d.Score, d.PreviousScore,
				d.PredictedScore, d.Confidence, formatTime(d.Timestamp, s.backend),
			}, nil
		})
}

// SaveHeatmap stores heatmap cells in the given order.
func (s *SQLStore) SaveHeatmap(ctx context.Context, cells []schema.HeatmapCell) error {
	return s.insertAll(ctx, heatmapTable,
		[]string{"id", "position", "unit_id", "dimension", "value", "trend", "created_at"},
		len(cells), func(i int) ([]any, error) {
			c := cells[i]
			return []any{
				c.ID, i, c.UnitID, string(c.Dimension), c.Value, string(c.Trend), formatTime(c.Timestamp, s.backend),
			}, nil
		})
}

// SaveAlerts stores alerts in the given order. Breakdown and top dimensions are stored as JSON.
func (s *SQLStore) SaveAlerts(ctx context.Context, alerts []schema.Alert) error {
	return s.insertAll(ctx, alertsTable,
		[]string{
			"id", "position", "unit_id", "severity", "title", "description", "dimension", "created_at",
			"average_score", "baseline_score", "delta", "component_breakdown", "top_dimensions",
		},
		len(alerts), func(i int) ([]any, error) {
			a := alerts[i]
			breakdown, err := json.Marshal(nonNilSlice(a.ComponentBreakdown))
			if err != nil {
				return nil, fmt.Errorf("failed to marshal component breakdown: %w", err)
			}
			top, err := json.Marshal(nonNilSlice(a.TopDimensions))
			if err != nil {
				return nil, fmt.Errorf("failed to marshal top dimensions: %w", err)
			}
			return []any{
				a.ID, i, a.UnitID, string(a.Severity), a.Title, a.Description, string(a.Dimension),
				formatTime(a.Timestamp, s.backend), a.AverageScore, a.BaselineScore, a.Delta,
				string(breakdown), string(top),
			}, nil
		})
}

// SaveNews stores news items in the given order.
func (s *SQLStore) SaveNews(ctx context.Context, news []schema.NewsItem) error {
	return s.insertAll(ctx, newsTable,
		[]string{
			"id", "position", "published_date", "source", "headline", "full_text",
			"summary", "category", "sentiment", "sector", "risk_type",
		},
		len(news), func(i int) ([]any, error) {
			n := news[i]
			return []any{
				n.ID, i, n.Date, n.Source, n.Headline, n.FullText,
				n.Summary, n.Category, string(n.Sentiment), n.Sector, n.RiskType,
			}, nil
		})
}

const (
	unitColumns    = "id, name, category, description"
	scoreColumns   = "id, unit_id, dimension, score, previous_score, predicted_score, confidence, created_at"
	heatmapColumns = "id, unit_id, dimension, value, trend, created_at"
	alertColumns   = "id, unit_id, severity, title, description, dimension, created_at, " +
		"average_score, baseline_score, delta, component_breakdown, top_dimensions"
	newsColumns = "id, published_date, source, headline, full_text, summary, category, sentiment, sector, risk_type"
)

type scanner interface {
	Scan(dest ...any) error
}

// listAll runs a SELECT over every row of a table in seed order.
func listAll[T any](ctx context.Context, s *SQLStore, table, columns string, scan func(scanner) (T, error)) ([]T, error) {
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY position", columns, s.table(table))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	results := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return results, nil
}

// getOne selects one row by ID and maps sql.ErrNoRows to contract.ErrNotFound.
func getOne[T any](ctx context.Context, s *SQLStore, table, columns, id string, scan func(scanner) (T, error)) (T, error) {
	q := s.query(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", columns, s.table(table)))
	v, err := scan(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return v, fmt.Errorf("%w: %s %q", contract.ErrNotFound, table, id)
	}
	if err != nil {
		return v, fmt.Errorf("failed to get %s %q: %w", table, id, err)
	}
	return v, nil
}

func scanUnit(row scanner) (schema.Unit, error) {
	var u schema.Unit
	err := row.Scan(&u.ID, &u.Name, &u.Category, &u.Description)
	return u, err
}

func scanScore(row scanner) (schema.DimensionScore, error) {
	var d schema.DimensionScore
	var dim string
	err := row.Scan(&d.ID, &d.UnitID, &dim, &d.Score, &d.PreviousScore, &d.PredictedScore,
		&d.Confidence, timeScanner{&d.Timestamp})
	d.Dimension = schema.Dimension(dim)
	return d, err
}

func scanHeatmap(row scanner) (schema.HeatmapCell, error) {
	var c schema.HeatmapCell
	var dim, trend string
	err := row.Scan(&c.ID, &c.UnitID, &dim, &c.Value, &trend, timeScanner{&c.Timestamp})
	c.Dimension = schema.Dimension(dim)
	c.Trend = schema.Trend(trend)
	return c, err
}

func scanAlert(row scanner) (schema.Alert, error) {
	var a schema.Alert
	var severity, dim, breakdown, top string
	if err := row.Scan(&a.ID, &a.UnitID, &severity, &a.Title, &a.Description, &dim,
		timeScanner{&a.Timestamp}, &a.AverageScore, &a.BaselineScore, &a.Delta, &breakdown, &top); err != nil {
		return a, err
	}
	a.Severity = schema.Severity(severity)
	a.Dimension = schema.Dimension(dim)
	if err := json.Unmarshal([]byte(breakdown), &a.ComponentBreakdown); err != nil {
		return a, fmt.Errorf("failed to decode component breakdown: %w", err)
	}
	if err := json.Unmarshal([]byte(top), &a.TopDimensions); err != nil {
		return a, fmt.Errorf("failed to decode top dimensions: %w", err)
	}
	return a, nil
}

func scanNews(row scanner) (schema.NewsItem, error) {
	var n schema.NewsItem
	var sentiment string
	err := row.Scan(&n.ID, &n.Date, &n.Source, &n.Headline, &n.FullText, &n.Summary,
		&n.Category, &sentiment, &n.Sector, &n.RiskType)
	n.Sentiment = schema.Sentiment(sentiment)
	return n, err
}

// ListUnits returns every unit in seed order.
func (s *SQLStore) ListUnits(ctx context.Context) ([]schema.Unit, error) {
	return listAll(ctx, s, unitsTable, unitColumns, scanUnit)
}

// GetUnit returns one unit by ID.
func (s *SQLStore) GetUnit(ctx context.Context, id string) (schema.Unit, error) {
	return getOne(ctx, s, unitsTable, unitColumns, id, scanUnit)
}

// ListScores returns every dimension score in seed order.
func (s *SQLStore) ListScores(ctx context.Context) ([]schema.DimensionScore, error) {
	return listAll(ctx, s, scoresTable, scoreColumns, scanScore)
}

// GetScore returns one dimension score by ID.
func (s *SQLStore) GetScore(ctx context.Context, id string) (schema.DimensionScore, error) {
	return getOne(ctx, s, scoresTable, scoreColumns, id, scanScore)
}

// ListHeatmap returns every heatmap cell in seed order.
func (s *SQLStore) ListHeatmap(ctx context.Context) ([]schema.HeatmapCell, error) {
	return listAll(ctx, s, heatmapTable, heatmapColumns, scanHeatmap)
}

// GetHeatmapCell returns one heatmap cell by ID.
func (s *SQLStore) GetHeatmapCell(ctx context.Context, id string) (schema.HeatmapCell, error) {
	return getOne(ctx, s, heatmapTable, heatmapColumns, id, scanHeatmap)
}

// ListAlerts returns every alert in seed order.
func (s *SQLStore) ListAlerts(ctx context.Context) ([]schema.Alert, error) {
	return listAll(ctx, s, alertsTable, alertColumns, scanAlert)
}

// GetAlert returns one alert by ID.
func (s *SQLStore) GetAlert(ctx context.Context, id string) (schema.Alert, error) {
	return getOne(ctx, s, alertsTable, alertColumns, id, scanAlert)
}

// ListNews returns every news item in seed order.
func (s *SQLStore) ListNews(ctx context.Context) ([]schema.NewsItem, error) {
	return listAll(ctx, s, newsTable, newsColumns, scanNews)
}

// GetNewsItem returns one news item by ID.
func (s *SQLStore) GetNewsItem(ctx context.Context, id string) (schema.NewsItem, error) {
	return getOne(ctx, s, newsTable, newsColumns, id, scanNews)
}

// GetStatus returns the backend, the migration version and the row count of every table.
func (s *SQLStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}
	if err := s.db.PingContext(ctx); err != nil {
		status.Connected = false
		return status, fmt.Errorf("failed to ping %s database: %w", s.backend, err)
	}

	var version int64
	row := s.db.QueryRowContext(ctx, "SELECT version FROM schema_migrations LIMIT 1")
	if err := row.Scan(&version); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return status, fmt.Errorf("failed to get migration version: %w", err)
	}
	status.Version = uint(version)

	for _, table := range allTables {
		var count int64
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table(table))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nonNilSlice[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
