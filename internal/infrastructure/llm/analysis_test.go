package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":   `{"a":1}`,
		"```\n{\"a\":1}```":         `{"a":1}`,
		"  {\"a\":1}  ":             `{"a":1}`,
		"plain text":                "plain text",
		"```json\n{\"a\":1}\n```\n": `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFences(in), in)
	}
}

func TestParseAnalysis(t *testing.T) {
	reply := "```json\n" + `{"insights":["i1"],"problems":["p1"],"key_points":["k1","k2"],"trends":[],"correlations":["c1"]}` + "\n```"
	a, err := ParseAnalysis(reply)
	require.NoError(t, err)
	assert.Equal(t, []string{"i1"}, a.Insights)
	assert.Equal(t, []string{"k1", "k2"}, a.KeyPoints)
	assert.False(t, a.Fallback)
}

func TestParseAnalysis_Invalid(t *testing.T) {
	for _, reply := range []string{"", "I cannot help with that.", `{"other":["x"]}`, `["a"]`} {
		a, err := ParseAnalysis(reply)
		assert.Nil(t, a, reply)
		assert.True(t, errors.IsCode(err, errors.CodeAIReplyInvalid), reply)
	}
}

func TestParseIntegratedAnalysis(t *testing.T) {
	a, err := ParseIntegratedAnalysis(`{"integrated_insights":["x"],"systemic_problems":[],"recommendations":["r1","r2"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, a.Recommendations)

	_, err = ParseIntegratedAnalysis(`{}`)
	assert.True(t, errors.IsCode(err, errors.CodeAIReplyInvalid))
}

func TestCannedAnalysis_Shape(t *testing.T) {
	a := CannedAnalysis()
	assert.True(t, a.Fallback)
	for _, list := range [][]string{a.Insights, a.Problems, a.KeyPoints, a.Trends, a.Correlations} {
		assert.Len(t, list, 3)
	}
	assert.Equal(t, "Need for improved water treatment infrastructure in urban centers", a.KeyPoints[0])

	// Each call returns an independent value.
	a.KeyPoints[0] = "changed"
	assert.NotEqual(t, "changed", CannedAnalysis().KeyPoints[0])

	ia := CannedIntegratedAnalysis()
	assert.True(t, ia.Fallback)
	assert.Len(t, ia.Recommendations, 3)
}
