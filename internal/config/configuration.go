package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// Engine binaries
	FFmpegPath  string `mapstructure:"FFMPEG_PATH" validate:"required"`
	FFprobePath string `mapstructure:"FFPROBE_PATH" validate:"required"`

	// Asset handling
	LUTDir     string `mapstructure:"LUT_DIR"`
	LUTMaxSize string `mapstructure:"LUT_MAX_SIZE" validate:"required"`

	// Scratch space for multi-pass renders
	WorkDir string `mapstructure:"WORK_DIR" validate:"required"`

	LogLevel string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
}

// SlogLevel maps the configured LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LUTMaxBytes parses the human-readable size cap ("64MB", "1.5GiB").
func (c *Config) LUTMaxBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.LUTMaxSize)
	if err != nil {
		return 0, fmt.Errorf("parse LUT_MAX_SIZE %q: %w", c.LUTMaxSize, err)
	}
	return int64(n), nil
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag != "" {
			viper.BindEnv(tag)
		}

		// Handle nested structs
		if field.Type.Kind() == reflect.Struct && tag == "" {
			nestedTyp := fieldVal.Type()
			for j := 0; j < fieldVal.NumField(); j++ {
				nestedField := nestedTyp.Field(j)
				nestedTag := nestedField.Tag.Get("mapstructure")
				if nestedTag != "" {
					viper.BindEnv(nestedTag)
				}
			}
		}
	}
	slog.Info("Environment variables bound", "config", c)
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("FFPROBE_PATH", "ffprobe")
	viper.SetDefault("LUT_MAX_SIZE", "64MB")
	viper.SetDefault("WORK_DIR", os.TempDir())
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Info("Loaded configuration", "config", cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if _, err := cfg.LUTMaxBytes(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
