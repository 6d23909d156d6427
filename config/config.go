// Package config loads the YAML configuration used by the wlibc command.
package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-libc/errors"
	"github.com/wippyai/wasm-libc/host"
	"github.com/wippyai/wasm-libc/runtime"
)

// EnvLogLevel overrides Logging.Level when set.
const EnvLogLevel = "WLIBC_LOG_LEVEL"

// MaxMemoryLimitPages is the largest limit wazero accepts (4GiB).
const MaxMemoryLimitPages = 65536

type Config struct {
	Runtime RuntimeConfig `yaml:"runtime"`
	Host    HostConfig    `yaml:"host"`
	Logging LoggingConfig `yaml:"logging"`
}

// RuntimeConfig configures guest execution.
type RuntimeConfig struct {
	MemoryLimitPages uint32 `yaml:"memory_limit_pages"` // 0 = wazero default
	EnableWASI       bool   `yaml:"enable_wasi"`
}

// HostConfig configures the env host services.
type HostConfig struct {
	MaxStringUnits     uint32 `yaml:"max_string_units"`
	LegacyPrefixScan   bool   `yaml:"legacy_prefix_scan"`
	StrictDecodeWindow bool   `yaml:"strict_decode_window"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := host.DefaultOptions()
	return &Config{
		Host: HostConfig{
			MaxStringUnits:     opts.MaxStringUnits,
			LegacyPrefixScan:   opts.LegacyPrefixScan,
			StrictDecodeWindow: opts.StrictDecodeWindow,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.ParseFailed(path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Runtime.MemoryLimitPages > MaxMemoryLimitPages {
		return errors.InvalidArgument(errors.PhaseConfig,
			fmt.Sprintf("runtime.memory_limit_pages %d exceeds %d", c.Runtime.MemoryLimitPages, MaxMemoryLimitPages))
	}
	if c.Host.MaxStringUnits == 0 {
		return errors.InvalidArgument(errors.PhaseConfig, "host.max_string_units must be positive")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.InvalidArgument(errors.PhaseConfig,
			fmt.Sprintf("logging.level %q: %v", c.Logging.Level, err))
	}
	return nil
}

// HostOptions returns the host.Env options the configuration describes.
func (c *Config) HostOptions() []host.Option {
	return []host.Option{
		host.WithMaxStringUnits(c.Host.MaxStringUnits),
		host.WithLegacyPrefixScan(c.Host.LegacyPrefixScan),
		host.WithStrictDecodeWindow(c.Host.StrictDecodeWindow),
	}
}

// RuntimeConfig returns the runtime.Config the configuration describes.
func (c *Config) RuntimeConfig() *runtime.Config {
	return &runtime.Config{
		MemoryLimitPages: c.Runtime.MemoryLimitPages,
		EnableWASI:       c.Runtime.EnableWASI,
	}
}

// Logger builds a zap logger at the configured level, writing to stderr.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
