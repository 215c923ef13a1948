package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// FLASHDECK_STORAGE_DRIVER.
const EnvPrefix = "FLASHDECK"

// Default storage locations per driver.
const (
	DefaultSQLitePath = "flashdeck.db"
	DefaultFilePath   = "flashdeck-data"
)

// Load configuration from environment variables and, if present, a
// flashdeck.yaml in the working directory.
// Environment variables take precedence over values from config files.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is like Load but reads the given config file instead of
// searching for one. An empty path falls back to the search.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("flashdeck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDriverDefaults(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("store.debounce_window", "1s")
	v.SetDefault("store.load_batch_size", 20)
	v.SetDefault("store.write_retries", 2)
	v.SetDefault("store.writer_workers", 1)
	v.SetDefault("study.seed", 0)
}

func applyDriverDefaults(cfg *Config) {
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Storage.Path != "" {
		return
	}
	switch cfg.Storage.Driver {
	case DriverSQLite:
		cfg.Storage.Path = DefaultSQLitePath
	case DriverFile:
		cfg.Storage.Path = DefaultFilePath
	}
}
