// Package source provides table sources that yield the raw rows of the input tables.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

// utf8BOM is stripped from the first header cell of spreadsheet exports.
const utf8BOM = "\ufeff"

// CSVSource reads each input table from its own CSV file.
type CSVSource struct {
	files map[schema.TableKind]string
}

var _ contract.TableSource = &CSVSource{} // Compile-time check

// NewCSVSource creates a source over the given table to file mapping.
func NewCSVSource(files map[schema.TableKind]string) *CSVSource {
	return &CSVSource{files: files}
}

// Rows reads every data row of the table's CSV file. The first record is the header.
func (s *CSVSource) Rows(ctx context.Context, kind schema.TableKind) ([]schema.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := s.files[kind]
	if !ok || path == "" {
		return nil, fmt.Errorf("%w: no file configured for %s", contract.ErrTableNotFound, kind)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (%s)", contract.ErrTableNotFound, kind, path)
		}
		return nil, fmt.Errorf("failed to open %s table: %w", kind, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s table from %s: %w", kind, path, err)
	}
	return rows, nil
}

// ReadCSV parses CSV content into rows keyed by the header record.
// Ragged records are allowed and blank lines are skipped.
func ReadCSV(r io.Reader) ([]schema.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	index := schema.HeaderIndex(header)

	var rows []schema.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, schema.NewRow(index, record))
	}
	return rows, nil
}

// isBlank reports whether every cell of the record is empty.
func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// MemorySource serves tables held in memory. It is safe for concurrent use.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[schema.TableKind][]schema.Row
}

var _ contract.TableSource = &MemorySource{} // Compile-time check

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[schema.TableKind][]schema.Row)}
}

// Add registers a table from a header and its records, replacing any previous table of that kind.
func (s *MemorySource) Add(kind schema.TableKind, header []string, records ...[]string) *MemorySource {
	index := schema.HeaderIndex(header)
	rows := make([]schema.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, schema.NewRow(index, rec))
	}
	s.mu.Lock()
	s.tables[kind] = rows
	s.mu.Unlock()
	return s
}

// Rows returns the rows of a registered table.
func (s *MemorySource) Rows(ctx context.Context, kind schema.TableKind) ([]schema.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.tables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contract.ErrTableNotFound, kind)
	}
	return rows, nil
}
