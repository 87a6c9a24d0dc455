package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

func TestPromptManager_BuildDatasetPrompt(t *testing.T) {
	pm, err := NewPromptManager("system text")
	require.NoError(t, err)

	p, err := pm.Build(TemplateMineral, PromptData{
		Label:       "mineral extraction",
		RecordCount: 216,
		SampleSize:  2,
		Columns:     []string{"year", "state"},
		Summary:     map[string]float64{"Johor": 1200.5},
		Sample:      []map[string]interface{}{{"state": "Johor"}},
	})
	require.NoError(t, err)

	require.Len(t, p.Messages, 2)
	assert.Equal(t, "system", p.Messages[0].Role)
	assert.Equal(t, "system text", p.Messages[0].Content)
	assert.Equal(t, "user", p.Messages[1].Role)
	assert.Contains(t, p.UserPrompt, "216 records with columns year, state")
	assert.Contains(t, p.UserPrompt, `"Johor": 1200.5`)
	assert.Contains(t, p.UserPrompt, `"key_points"`)
	assert.Greater(t, p.EstimatedTokens, 0)
}

func TestPromptManager_AllBuiltinsRender(t *testing.T) {
	pm, err := NewPromptManager("")
	require.NoError(t, err)
	for _, name := range []string{TemplateMineral, TemplateWater, TemplateTimber} {
		out, err := pm.Render(name, PromptData{})
		require.NoError(t, err, name)
		assert.NotEmpty(t, out)
	}
	out, err := pm.Render(TemplateIntegrated, IntegratedPromptData{Summaries: map[string]interface{}{
		"water quality": map[string]float64{"quality_index": 71.2},
	}})
	require.NoError(t, err)
	assert.Contains(t, out, "## water quality")
	assert.Contains(t, out, `"recommendations"`)
}

func TestPromptManager_TruncatesLargeSamples(t *testing.T) {
	pm, err := NewPromptManager("")
	require.NoError(t, err)
	out, err := pm.Render(TemplateTimber, PromptData{Sample: strings.Repeat("x", maxSampleChars*2)})
	require.NoError(t, err)
	assert.Less(t, len(out), maxSampleChars+4000)
	assert.Contains(t, out, "...")
}

func TestPromptManager_Errors(t *testing.T) {
	pm, err := NewPromptManager("")
	require.NoError(t, err)

	_, err = pm.Render("missing", nil)
	assert.True(t, errors.IsNotFound(err))

	err = pm.RegisterTemplate("broken", "{{.Unclosed")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	require.NoError(t, pm.RegisterTemplate("custom", "hello {{upper .}}"))
	out, err := pm.Render("custom", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello WORLD", out)
}

func TestEstimateTokenCount(t *testing.T) {
	assert.Equal(t, 0, EstimateTokenCount(""))
	assert.Equal(t, 1, EstimateTokenCount("a"))
	assert.Equal(t, 25, EstimateTokenCount(strings.Repeat("a", 100)))
}
