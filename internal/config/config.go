// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/greenlab/leafscan/internal/quality"
)

// Config is the full configuration surface of the service. Every field
// has a working default; env vars override.
type Config struct {
	Port         string `mapstructure:"app_port"`
	LogLevel     string `mapstructure:"app_log_level"`
	ModelPath    string `mapstructure:"model_path"`
	MetadataPath string `mapstructure:"model_metadata_path"`

	EnhanceContrast bool `mapstructure:"enhance_contrast"`
	IsolateLeaf     bool `mapstructure:"isolate_leaf"`

	CORSAllowOrigin string `mapstructure:"cors_allow_origin"`

	QualityMinDim        int     `mapstructure:"quality_min_dim"`
	QualityMinBrightness float64 `mapstructure:"quality_min_brightness"`
	QualityMaxBrightness float64 `mapstructure:"quality_max_brightness"`
	QualityMinSharpness  float64 `mapstructure:"quality_min_sharpness"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()

	gate := quality.DefaultGate()
	v.SetDefault("app_port", "8080")
	v.SetDefault("app_log_level", "info")
	v.SetDefault("model_path", "models/plant_disease_model.onnx")
	v.SetDefault("model_metadata_path", "models/model_metadata.json")
	v.SetDefault("enhance_contrast", false)
	v.SetDefault("isolate_leaf", false)
	v.SetDefault("cors_allow_origin", "http://localhost:3000")
	v.SetDefault("quality_min_dim", gate.MinDim)
	v.SetDefault("quality_min_brightness", gate.MinBrightness)
	v.SetDefault("quality_max_brightness", gate.MaxBrightness)
	v.SetDefault("quality_min_sharpness", gate.MinSharpness)

	v.BindEnv("app_port", "APP_PORT")
	v.BindEnv("app_log_level", "APP_LOG_LEVEL")
	v.BindEnv("model_path", "MODEL_PATH")
	v.BindEnv("model_metadata_path", "MODEL_METADATA_PATH")
	v.BindEnv("enhance_contrast", "ENHANCE_CONTRAST")
	v.BindEnv("isolate_leaf", "ISOLATE_LEAF")
	v.BindEnv("cors_allow_origin", "CORS_ALLOW_ORIGIN")
	v.BindEnv("quality_min_dim", "QUALITY_MIN_DIM")
	v.BindEnv("quality_min_brightness", "QUALITY_MIN_BRIGHTNESS")
	v.BindEnv("quality_max_brightness", "QUALITY_MAX_BRIGHTNESS")
	v.BindEnv("quality_min_sharpness", "QUALITY_MIN_SHARPNESS")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Gate returns the quality thresholds as a quality.Gate.
func (c *Config) Gate() quality.Gate {
	return quality.Gate{
		MinDim:        c.QualityMinDim,
		MinBrightness: c.QualityMinBrightness,
		MaxBrightness: c.QualityMaxBrightness,
		MinSharpness:  c.QualityMinSharpness,
	}
}
