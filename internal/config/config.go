package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"mealcheck/internal/fdc"
)

// EnvPrefix prefixes every environment override, e.g. MEALCHECK_FDC_API_KEY.
const EnvPrefix = "MEALCHECK_"

// FileName is the config file looked up in the workspace root.
const FileName = "config.yml"

// Config is the merged application configuration.
type Config struct {
	FDC    FDCConfig    `koanf:"fdc"`
	Log    LogConfig    `koanf:"log"`
	Limits LimitsConfig `koanf:"limits"`
	Notify NotifyConfig `koanf:"notify"`
}

// FDCConfig configures the FoodData Central client.
type FDCConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	PageSize          int           `koanf:"page_size" validate:"gte=1,lte=200"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	MaxRetries        int           `koanf:"max_retries" validate:"gte=0,lte=10"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// LimitsConfig points at an optional safety-limits file, relative to the workspace.
type LimitsConfig struct {
	Path string `koanf:"path"`
}

// NotifyConfig toggles desktop notifications.
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FDC: FDCConfig{
			BaseURL:           fdc.DefaultBaseURL,
			Timeout:           15 * time.Second,
			PageSize:          25,
			RequestsPerSecond: 2,
			MaxRetries:        3,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Limits: LimitsConfig{
			Path: "limits.yml",
		},
	}
}

// Load merges defaults, <root>/config.yml when present, then MEALCHECK_*
// environment variables, and validates the result.
func Load(root string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if root != "" {
		path := filepath.Join(root, FileName)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps MEALCHECK_FDC_API_KEY to fdc.api_key.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	return section + "." + rest
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// FDCClientConfig converts the section into client settings.
func (c *Config) FDCClientConfig() fdc.Config {
	return fdc.Config{
		APIKey:            c.FDC.APIKey,
		BaseURL:           c.FDC.BaseURL,
		Timeout:           c.FDC.Timeout,
		PageSize:          c.FDC.PageSize,
		RequestsPerSecond: c.FDC.RequestsPerSecond,
		MaxRetries:        c.FDC.MaxRetries,
	}
}
