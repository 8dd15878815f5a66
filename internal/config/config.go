// Package config loads ordergraph settings from defaults, an optional YAML
// file, ORDERGRAPH_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/roach88/ordergraph/internal/graph"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. ORDERGRAPH_MAX_STEPS.
	EnvPrefix = "ORDERGRAPH"
	// FileName is the config file looked up in the working directory.
	FileName = "ordergraph"
)

// Keys shared with the CLI flag bindings.
const (
	KeyDB        = "db"
	KeyMaxSteps  = "max_steps"
	KeyFormat    = "format"
	KeyCacheSize = "cache.size"
	KeyCacheTTL  = "cache.ttl"
	KeyLogLevel  = "log.level"
)

// Config is the resolved configuration.
type Config struct {
	DB       string      `mapstructure:"db"`
	MaxSteps int         `mapstructure:"max_steps" validate:"gte=0"`
	Format   string      `mapstructure:"format" validate:"oneof=text json"`
	Cache    CacheConfig `mapstructure:"cache"`
	Log      LogConfig   `mapstructure:"log"`
}

// CacheConfig sizes the verdict cache. A size of zero disables it.
type CacheConfig struct {
	Size int64         `mapstructure:"size" validate:"gte=0"`
	TTL  time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error disabled"`
}

// New returns a viper instance with defaults and environment lookup set up.
// Callers bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyMaxSteps, graph.DefaultMaxSteps)
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyCacheSize, 1024)
	v.SetDefault(KeyCacheTTL, 10*time.Minute)
	v.SetDefault(KeyLogLevel, "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file and decodes the merged settings.
//
// With an explicit path the file must exist. Without one, ordergraph.yaml
// in the working directory is used when present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Format = strings.ToLower(cfg.Format)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
