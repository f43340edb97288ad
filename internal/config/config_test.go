package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-finder/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.PriorityRadiusKm)
	assert.Equal(t, 500.0, cfg.MaxRadiusKm)
	assert.Equal(t, 30, cfg.MaxShops)
	assert.Equal(t, 30*time.Second, cfg.SourceTimeout)
	assert.True(t, cfg.PlacesAPIEnabled)
	assert.False(t, cfg.Speculative)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRIORITY_RADIUS_KM", "5")
	t.Setenv("MAX_RADIUS_KM", "50.5")
	t.Setenv("MAX_SHOPS", "10")
	t.Setenv("SPECULATIVE_SEARCH", "1")
	t.Setenv("PLACES_API_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.PriorityRadiusKm)
	assert.Equal(t, 50.5, cfg.MaxRadiusKm)
	assert.Equal(t, 10, cfg.MaxShops)
	assert.True(t, cfg.Speculative)
	assert.False(t, cfg.PlacesAPIEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadRejectsOutOfBounds(t *testing.T) {
	tests := map[string]string{
		"MAX_RADIUS_KM":      "1500",
		"MAX_SHOPS":          "101",
		"PRIORITY_RADIUS_KM": "0",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := config.Load()
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoadRejectsPriorityAboveMax(t *testing.T) {
	t.Setenv("PRIORITY_RADIUS_KM", "100")
	t.Setenv("MAX_RADIUS_KM", "50")

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Setenv("MAX_SHOPS", "thirty")

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "MAX_SHOPS")
}
