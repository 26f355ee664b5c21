// Package iocache persists the entities of a seeding run on SQL or in-memory backends.
package iocache

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
	"github.com/go-sql-driver/mysql"    // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for persisted entities.
const (
	unitsTable   = "auditradar_units"
	scoresTable  = "auditradar_dimension_scores"
	heatmapTable = "auditradar_heatmap_cells"
	alertsTable  = "auditradar_alerts"
	newsTable    = "auditradar_news_items"
)

// allTables lists every entity table in creation order.
var allTables = []string{unitsTable, scoresTable, heatmapTable, alertsTable, newsTable}

// NewEntityStore creates the store for the given backend. SQL backends are migrated
// to the latest schema version before the store is returned.
func NewEntityStore(backend schema.DatabaseBackend, connStr string) (contract.EntityStore, error) {
	if backend == schema.MemoryBackend {
		return NewMemoryStore(), nil
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return nil, err
	}
	if _, err := Migrate(backend, connStr, contract.LatestMigration); err != nil {
		return nil, fmt.Errorf("failed to migrate %s store: %w", backend, err)
	}
	return NewSQLStore(backend, connStr)
}

// openDB opens and pings the database of a SQL backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		dsn, err := mysqlDSN(connStr)
		if err != nil {
			return nil, err
		}
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=auditradar
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or memory", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// mysqlDSN enables time parsing so DATETIME columns scan into time.Time.
func mysqlDSN(connStr string) (string, error) {
	c, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w", err)
	}
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN(), nil
}

// quoteTableName quotes a table name for the backend's SQL dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	default: // SQLite and PostgreSQL
		return `"` + name + `"`
	}
}

// rebind rewrites "?" placeholders into "$n" placeholders for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// timeScanner scans a timestamp stored as RFC3339 text (SQLite) or natively (MySQL, PostgreSQL).
type timeScanner struct {
	t *time.Time
}

// Scan implements sql.Scanner.
func (ts timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		*ts.t = time.Time{}
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (ts timeScanner) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	*ts.t = t.UTC()
	return nil
}
