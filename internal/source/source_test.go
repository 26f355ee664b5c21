package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	content := "\ufeffControl ID,Business Area,Design Effectiveness\n" +
		"C-1,Retail Banking,Effective\n" +
		",,\n" +
		"C-2, \"Cards, Payments\",Ineffective,extra\n"

	rows, err := ReadCSV(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "C-1", rows[0].Field("Control ID"))
	assert.Equal(t, "Cards, Payments", rows[1].Field("business_area"))
	assert.Equal(t, "extra", rows[1].At(3))
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVSourceRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "units.csv")
	require.NoError(t, os.WriteFile(path, []byte("Unit,Category\nTax,Finance\n"), 0o644))

	src := NewCSVSource(map[schema.TableKind]string{
		schema.UnitsTable: path,
		schema.NewsTable:  filepath.Join(dir, "missing.csv"),
	})
	ctx := context.Background()

	rows, err := src.Rows(ctx, schema.UnitsTable)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tax", rows[0].At(0))

	_, err = src.Rows(ctx, schema.NewsTable)
	assert.ErrorIs(t, err, contract.ErrTableNotFound)

	_, err = src.Rows(ctx, schema.CVEsTable)
	assert.ErrorIs(t, err, contract.ErrTableNotFound)
}

func TestCSVSourceCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCSVSource(nil).Rows(ctx, schema.UnitsTable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource().
		Add(schema.IssuesTable, []string{"Audit Unit", "Severity"}, []string{"Tax", "High"}, []string{"Legal", "Low"})

	rows, err := src.Rows(context.Background(), schema.IssuesTable)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Legal", rows[1].Field("auditunit"))

	_, err = src.Rows(context.Background(), schema.UnitsTable)
	assert.ErrorIs(t, err, contract.ErrTableNotFound)
}
