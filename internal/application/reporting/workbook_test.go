package reporting

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, rep *Report) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, rep))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func findRow(t *testing.T, f *excelize.File, sheet, first string) []string {
	t.Helper()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	for _, r := range rows {
		if len(r) > 0 && r[0] == first {
			return r
		}
	}
	t.Fatalf("no row starting with %q in %s", first, sheet)
	return nil
}

func TestWriteWorkbook_Sheets(t *testing.T) {
	rep, err := Parse([]byte(samplePayload))
	require.NoError(t, err)
	f := openWorkbook(t, rep)

	assert.Equal(t,
		[]string{SummarySheet, "mineral_extraction", "water_quality", "timber_production"},
		f.GetSheetList())
}

func TestWriteWorkbook_Summary(t *testing.T) {
	rep, err := Parse([]byte(samplePayload))
	require.NoError(t, err)
	f := openWorkbook(t, rep)

	assert.Equal(t, []string{"Mineral Extraction", "ok", "TRUE", "1", "Using synthetic data"},
		findRow(t, f, SummarySheet, "Mineral Extraction"))
	assert.Equal(t, "insufficient_data", findRow(t, f, SummarySheet, "Timber Production")[1])
	findRow(t, f, SummarySheet, "Monitor rivers.")
}

func TestWriteWorkbook_Tables(t *testing.T) {
	rep, err := Parse([]byte(samplePayload))
	require.NoError(t, err)
	f := openWorkbook(t, rep)

	// Matrix: series by year.
	assert.Equal(t, []string{"yearly_production_by_type", "2019", "2020"},
		findRow(t, f, "mineral_extraction", "yearly_production_by_type"))
	assert.Equal(t, []string{"Metallic", "100", "150"}, findRow(t, f, "mineral_extraction", "Metallic"))

	// List of objects: header then rows.
	assert.Equal(t, []string{"name", "total"}, findRow(t, f, "mineral_extraction", "name"))
	assert.Equal(t, []string{"Coal", "400"}, findRow(t, f, "mineral_extraction", "Coal"))

	// Mixed object: scalars inline, nested maps under a dotted title.
	assert.Equal(t, []string{"k", "2"}, findRow(t, f, "mineral_extraction", "k"))
	findRow(t, f, "mineral_extraction", "state_clusters.assignments")
	assert.Equal(t, []string{"Pahang", "1"}, findRow(t, f, "mineral_extraction", "Pahang"))

	// Scalar and flat map.
	assert.Equal(t, []string{"quality_index", "84"}, findRow(t, f, "water_quality", "quality_index"))
	assert.Equal(t, []string{"Clean", "60"}, findRow(t, f, "water_quality", "Clean"))
	findRow(t, f, "water_quality", "Water is mostly clean.")
}

func TestSheetName_Truncates(t *testing.T) {
	assert.Len(t, sheetName("a_very_long_dataset_name_that_exceeds_the_limit"), maxSheetName)
	assert.Equal(t, "short", sheetName("short"))
}
