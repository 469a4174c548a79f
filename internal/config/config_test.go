package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-tiles/internal/domain"
)

func TestBuild_Defaults(t *testing.T) {
	cfg, err := build(viper.New())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultZoomConfig(), cfg.Tiles.Zoom)
	assert.Equal(t, 8, cfg.Tiles.BatchConcurrency)
	assert.Equal(t, time.Hour, cfg.Cache.TilesCacheTTL)
	assert.Equal(t, "tiles-recompute-workers", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 5*time.Second, cfg.Worker.StreamReadTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
}

func TestBuild_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("TILES_POINT_MIN_ZOOM", 10)
	v.Set("TILES_POINT_MAX_ZOOM", 12)
	v.Set("TILES_TRACE_ZOOM", 14)
	v.Set("REDIS_HOST", "cache")
	v.Set("DB_HOST", "db")
	v.Set("DB_PORT", 5432)
	v.Set("DB_USER", "bal")
	v.Set("DB_PASSWORD", "secret")
	v.Set("DB_NAME", "bal")

	cfg, err := build(v)
	require.NoError(t, err)

	assert.Equal(t, domain.ZoomRange{MinZoom: 10, MaxZoom: 12}, cfg.Tiles.Zoom.Point)
	assert.Equal(t, domain.FixedZoom{Zoom: 14}, cfg.Tiles.Zoom.Trace)
	assert.Equal(t, "cache:6379", cfg.GetRedisAddr())
	assert.Equal(t, "host=db port=5432 user=bal password=secret dbname=bal sslmode=disable", cfg.GetDatabaseDSN())
}

func TestBuild_RejectsInvalidZoom(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  int
	}{
		{"min above max", "TILES_POINT_MIN_ZOOM", 20},
		{"street max out of bounds", "TILES_STREET_MAX_ZOOM", 30},
		{"negative trace zoom", "TILES_TRACE_ZOOM", -1},
		{"zero concurrency", "TILES_BATCH_CONCURRENCY", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)

			_, err := build(v)
			assert.Error(t, err)
		})
	}
}
