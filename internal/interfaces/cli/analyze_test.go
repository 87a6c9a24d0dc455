package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

func TestAnalyzeCmd_JSON(t *testing.T) {
	out, err := runCLI(t, "analyze", "-o", "json")
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	for _, key := range []string{"mineral_extraction", "water_quality", "timber_production", "recommendations"} {
		assert.Contains(t, payload, key)
	}

	var mineral map[string]interface{}
	require.NoError(t, json.Unmarshal(payload["mineral_extraction"], &mineral))
	assert.Equal(t, true, mineral["synthetic"])
	assert.Contains(t, mineral, "yearly_production_by_type")
	assert.NotEmpty(t, mineral["insights"])
}

func TestAnalyzeCmd_SingleDatasetText(t *testing.T) {
	out, err := runCLI(t, "analyze", "water_quality")
	require.NoError(t, err)
	assert.Contains(t, out, "Water Quality [synthetic]")
	assert.NotContains(t, out, "Mineral Extraction")
	assert.Contains(t, out, "  - ")
}

func TestAnalyzeCmd_Table(t *testing.T) {
	out, err := runCLI(t, "analyze", "--output", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "DATASET")
	assert.Contains(t, out, "timber_production")
}

func TestAnalyzeCmd_UnknownDataset(t *testing.T) {
	_, err := runCLI(t, "analyze", "air_quality")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDatasetNotFound))
}

func TestExportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := runCLI(t, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "workbook written to "+path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "mineral_extraction", "water_quality", "timber_production"}, f.GetSheetList())
}

func TestChartCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	_, err := runCLI(t, "chart", "--out", path, "--dataset", "timber_production")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestChartCmd_NoProductionData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	_, err := runCLI(t, "chart", "--out", path, "--dataset", "water_quality")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeExportFailed))
	assert.NoFileExists(t, path)
}
