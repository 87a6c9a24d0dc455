package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, DefaultInsightModel, cfg.Insight.Model)
	assert.Equal(t, DefaultInsightTimeout, cfg.Insight.Timeout)
	assert.False(t, cfg.Insight.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Len(t, cfg.Synthetic.States, 13)
}

func TestDefaultValues_CoverEveryStructSection(t *testing.T) {
	keys := defaultValues()
	for _, prefix := range []string{"server.", "log.", "datasets.", "synthetic.", "cache.", "redis.", "insight.", "kafka.", "metrics.", "cors."} {
		found := false
		for k := range keys {
			if len(k) > len(prefix) && k[:len(prefix)] == prefix {
				found = true
				break
			}
		}
		assert.True(t, found, "no defaults registered under %s", prefix)
	}
}
