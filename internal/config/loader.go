// Package config provides configuration loading and management for romple.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the config file relative to the working directory.
	DefaultConfigPath = ".romple/config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "ROMPLE"
)

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// LoadConfig loads configuration from the specified path, applies defaults,
// merges environment variables, and validates the result.
// If path is empty, it uses DefaultConfigPath relative to the working directory.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{
			Path:    path,
			Message: "config file not found",
			Err:     err,
		}
	}

	l.v.SetConfigFile(path)

	if err := l.v.ReadInConfig(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to read config file",
			Err:     err,
		}
	}

	// Start with defaults
	cfg := NewConfig()

	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	l.applyEnvOverrides(cfg)

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .romple/config.yaml in the specified directory.
func (l *Loader) LoadConfigFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultConfigPath)
	return l.LoadConfig(path)
}

// LoadOrDefault loads configuration from path, falling back to defaults when
// the file does not exist. Other errors are still reported.
func (l *Loader) LoadOrDefault(path string) (*Config, error) {
	cfg, err := l.LoadConfig(path)
	if err != nil {
		var le *LoadError
		if ok := asLoadError(err, &le); ok && os.IsNotExist(le.Err) {
			cfg = NewConfig()
			l.applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

func asLoadError(err error, target **LoadError) bool {
	le, ok := err.(*LoadError)
	if ok {
		*target = le
	}
	return ok
}

// applyEnvOverrides applies environment variable overrides to the config.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv(EnvPrefix + "_DAT_FOLDER"); v != "" {
		cfg.DAT.Folder = v
	}
	if v := os.Getenv(EnvPrefix + "_SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Workers = n
		}
	}
	if v := os.Getenv(EnvPrefix + "_SCAN_CHUNK_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.ChunkSizeMB = n
		}
	}
	if v := os.Getenv(EnvPrefix + "_SCAN_HASHES"); v != "" {
		cfg.Scan.Hashes = parseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "_MATCH_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Match.Threshold = f
		}
	}
	if v := os.Getenv(EnvPrefix + "_ORGANIZE_DUPLICATES"); v != "" {
		cfg.Organize.Duplicates = DuplicateHandling(v)
	}
}

// parseBool parses a string as a boolean value.
// Returns true for "true", "1", "yes" (case-insensitive).
// Returns false for anything else.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// viperDecodeHook provides custom decoding for viper unmarshaling.
// It composes the standard mapstructure hooks with our custom ones.
// The config structs carry yaml tags, so decoding matches on those;
// without TagName, snake_case keys like chunk_size_mb would not reach
// their fields.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToCustomTypeHookFunc(),
	)
}

// stringToCustomTypeHookFunc creates a decode hook for our custom types.
func stringToCustomTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		if to == reflect.TypeOf(DuplicateHandling("")) {
			return DuplicateHandling(data.(string)), nil
		}

		return data, nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
