package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/internal/logging"
	"github.com/alvinmin/auditradar/internal/source"
	"github.com/alvinmin/auditradar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDataset(t *testing.T) {
	data, err := BuildDataset(context.Background(), workedExampleSource(), schema.DefaultLayout(), logging.Discard())
	require.NoError(t, err)

	require.Len(t, data.Units, 2)
	cyber := data.Units[0]
	assert.Equal(t, cyberUnit, cyber.Name)
	assert.Equal(t, "Technology", cyber.Category)
	assert.Equal(t, "Security", cyber.SubCategory)
	assert.Equal(t, 3.0, cyber.Ratings[schema.DataTech])

	assert.Len(t, data.Controls, 2)
	require.Len(t, data.Issues, 1)
	assert.Equal(t, "Severe", data.Issues[0].Severity)
	assert.Empty(t, data.News)
	assert.Empty(t, data.CVEs)

	m, ok := data.OperationalFor("CYBERSECURITY PROGRAM")
	require.True(t, ok)
	assert.Equal(t, 60.0, m.PredictiveScore)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, m.SubMetrics)

	_, ok = data.FindUnit(" payroll ")
	assert.True(t, ok)
	_, ok = data.FindUnit("Tax")
	assert.False(t, ok)
}

func TestBuildDatasetMissingUnits(t *testing.T) {
	src := source.NewMemorySource().Add(schema.ControlsTable, controlsHeader)

	_, err := BuildDataset(context.Background(), src, schema.DefaultLayout(), logging.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrTableNotFound)
	assert.Contains(t, err.Error(), "units")
}

func TestBuildDatasetCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildDataset(ctx, workedExampleSource(), schema.DefaultLayout(), logging.Discard())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildDatasetCustomLayout(t *testing.T) {
	layout := schema.DefaultLayout()
	layout.UnitNameColumn = 1
	layout.CategoryColumn = 0

	src := source.NewMemorySource().Add(schema.UnitsTable, unitsHeader,
		[]string{"Finance", payrollUnit, "HR", "", "1", "2", "3", "4", "5", "6", "7"},
		[]string{"Finance", "", "HR", "", "1", "1", "1", "1", "1", "1", "1"},
	)
	data, err := BuildDataset(context.Background(), src, layout, logging.Discard())
	require.NoError(t, err)

	require.Len(t, data.Units, 1)
	assert.Equal(t, payrollUnit, data.Units[0].Name)
	assert.Equal(t, "Finance", data.Units[0].Category)
	assert.Equal(t, 6.0, data.Units[0].Ratings[schema.DataTech])
}

func TestVendorsFor(t *testing.T) {
	data := NewDataset(Dataset{Vendors: []schema.VendorMapping{
		{Unit: cyberUnit, Vendors: []string{"Microsoft"}},
		{Unit: "cybersecurity program", Vendors: []string{"Cisco"}},
	}})

	vendors, ok := data.VendorsFor(cyberUnit)
	require.True(t, ok)
	assert.Equal(t, []string{"Microsoft", "Cisco"}, vendors)

	_, ok = data.VendorsFor(payrollUnit)
	assert.False(t, ok)
}

func TestDatasetLoaderBuildsOnce(t *testing.T) {
	src := &countingSource{MemorySource: workedExampleSource()}
	loader := NewDatasetLoader(src, schema.DefaultLayout(), logging.Discard())

	var wg sync.WaitGroup
	results := make([]*Dataset, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := loader.Load(context.Background())
			assert.NoError(t, err)
			results[i] = data
		}(i)
	}
	wg.Wait()

	for _, data := range results {
		assert.Same(t, results[0], data)
	}
	assert.Equal(t, int32(1), src.unitReads.Load())
}

func TestDatasetLoaderRetriesAfterFailure(t *testing.T) {
	src := source.NewMemorySource()
	loader := NewDatasetLoader(src, schema.DefaultLayout(), logging.Discard())

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contract.ErrTableNotFound))

	src.Add(schema.UnitsTable, unitsHeader, []string{payrollUnit, "Finance", "", "", "1", "1", "1", "1", "1", "1", "1"})
	data, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Units, 1)
}
