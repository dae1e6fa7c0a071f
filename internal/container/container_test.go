package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statadvisor/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Profiling: config.ProfilingConfig{SampleSize: 500},
		Cache:     config.CacheConfig{AssumptionEntries: 4},
		Backend:   config.BackendConfig{Alpha: 0.05},
		LogLevel:  "ERROR",
	}
}

func TestNewWithoutBackendOrDatabase(t *testing.T) {
	c, err := New(testConfig(), nil)
	require.NoError(t, err)

	assert.NotNil(t, c.Advisor)
	assert.NotNil(t, c.RecommendationRepo)
	assert.Nil(t, c.Backend)
	assert.Nil(t, c.Checker)
	assert.Nil(t, c.DB)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewWithBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Backend.URL = "http://stats.internal:9000"

	c, err := New(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Backend)
	assert.NotNil(t, c.Checker)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestInitWithDatabaseRejectsNil(t *testing.T) {
	c, err := New(testConfig(), nil)
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(context.Background(), nil))
}
