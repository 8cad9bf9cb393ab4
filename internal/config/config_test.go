package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "models/plant_disease_model.onnx", cfg.ModelPath)
	assert.False(t, cfg.EnhanceContrast)
	assert.False(t, cfg.IsolateLeaf)
	assert.Equal(t, "http://localhost:3000", cfg.CORSAllowOrigin)
	assert.Equal(t, 100, cfg.QualityMinDim)
	assert.Equal(t, 30.0, cfg.QualityMinBrightness)
	assert.Equal(t, 220.0, cfg.QualityMaxBrightness)
	assert.Equal(t, 100.0, cfg.QualityMinSharpness)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("ENHANCE_CONTRAST", "true")
	t.Setenv("QUALITY_MIN_DIM", "64")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.True(t, cfg.EnhanceContrast)
	assert.Equal(t, 64, cfg.QualityMinDim)
}

func TestGate_MapsThresholds(t *testing.T) {
	cfg := &Config{
		QualityMinDim:        50,
		QualityMinBrightness: 10,
		QualityMaxBrightness: 240,
		QualityMinSharpness:  75,
	}

	g := cfg.Gate()

	assert.Equal(t, 50, g.MinDim)
	assert.Equal(t, 10.0, g.MinBrightness)
	assert.Equal(t, 240.0, g.MaxBrightness)
	assert.Equal(t, 75.0, g.MinSharpness)
}
