package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

const samplePayload = `{
  "water_quality": {
    "insights": ["Water is mostly clean."],
    "quality_index": 84,
    "latest_status_breakdown": {"Clean": 60, "Slightly Polluted": 30, "Polluted": 10},
    "trends": [{"year": 2019, "clean_share": 55.5}, {"year": 2020, "clean_share": 60}]
  },
  "mineral_extraction": {
    "insights": ["Coal grew the most."],
    "synthetic": true,
    "message": "Using synthetic data",
    "yearly_production_by_type": {
      "Metallic": {"2019": 100, "2020": 150},
      "Non-metallic": {"2019": 80, "2020": 70}
    },
    "top_commodities": [{"name": "Coal", "total": 400}, {"name": "Tin", "total": 120}],
    "state_clusters": {"k": 2, "inertia": 1.5, "assignments": {"Johor": 0, "Pahang": 1}}
  },
  "timber_production": {
    "insights": ["Data is insufficient."],
    "status": "insufficient_data"
  },
  "recommendations": ["Monitor rivers.", "Replant forests."],
  "integrated_analysis": {"summary": "ignored"}
}`

func TestParse_OrderAndFields(t *testing.T) {
	rep, err := Parse([]byte(samplePayload))
	require.NoError(t, err)

	require.Len(t, rep.Sections, 3)
	assert.Equal(t, "mineral_extraction", rep.Sections[0].Name)
	assert.Equal(t, "water_quality", rep.Sections[1].Name)
	assert.Equal(t, "timber_production", rep.Sections[2].Name)
	assert.Equal(t, []string{"Monitor rivers.", "Replant forests."}, rep.Recommendations)

	min := rep.Sections[0]
	assert.True(t, min.Synth)
	assert.Equal(t, "Using synthetic data", min.Message)
	assert.Equal(t, []string{"Coal grew the most."}, min.Insights)
	assert.Equal(t, []string{"state_clusters", "top_commodities", "yearly_production_by_type"}, min.FieldKeys())

	timber, ok := rep.Section("timber_production")
	require.True(t, ok)
	assert.Equal(t, "insufficient_data", timber.Status)
	assert.Empty(t, timber.Fields)

	_, ok = rep.Section("air_quality")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`[1,2]`))
	assert.True(t, errors.IsCode(err, errors.CodeSerialization))

	_, err = Parse([]byte(`{"recommendations": 5}`))
	assert.True(t, errors.IsCode(err, errors.CodeSerialization))

	_, err = Parse([]byte(`{"water_quality": "nope"}`))
	assert.True(t, errors.IsCode(err, errors.CodeSerialization))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Mineral Extraction", Title("mineral_extraction"))
	assert.Equal(t, "Water Quality", Title("water-quality"))
	assert.Equal(t, "", Title(""))
}
