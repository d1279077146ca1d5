// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Configuration model and YAML loading.

package control

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-threadname/internal/concurrency"
	"github.com/momentics/hioload-threadname/internal/logging"
	"github.com/momentics/hioload-threadname/threadname"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// RenameConfig drives RenameAll.
type RenameConfig struct {
	BaseName      string        `mapstructure:"base_name"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	SettleTimeout time.Duration `mapstructure:"settle_timeout"`
}

// Options converts the config into RenameAll options.
func (rc RenameConfig) Options() []threadname.Option {
	return []threadname.Option{
		threadname.WithPollInterval(rc.PollInterval),
		threadname.WithSettleTimeout(rc.SettleTimeout),
	}
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the whole configuration file.
type Config struct {
	Pool    concurrency.PoolConfig `mapstructure:"pool"`
	Rename  RenameConfig           `mapstructure:"rename"`
	Logging logging.Options        `mapstructure:"logging"`
	Metrics MetricsConfig          `mapstructure:"metrics"`
}

// Default returns the configuration used for absent keys.
func Default() Config {
	return Config{
		Pool: concurrency.PoolConfig{Workers: 0},
		Rename: RenameConfig{
			BaseName:      "worker",
			PollInterval:  threadname.DefaultPollInterval,
			SettleTimeout: threadname.DefaultSettleTimeout,
		},
		Logging: logging.Options{Level: "info", Format: "console", Writer: "stderr"},
		Metrics: MetricsConfig{Addr: ":9464", Namespace: "threadname"},
	}
}

// Load reads path, applies it over Default and validates the result. An empty
// path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Parse(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content into cfg, keeping values for absent keys, and
// validates the result.
func Parse(content []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Pool.Workers < 0:
		return fmt.Errorf("%w: pool.workers must not be negative", ErrInvalidConfig)
	case strings.TrimSpace(c.Rename.BaseName) == "":
		return fmt.Errorf("%w: rename.base_name is empty", ErrInvalidConfig)
	case c.Rename.PollInterval <= 0:
		return fmt.Errorf("%w: rename.poll_interval must be positive", ErrInvalidConfig)
	case c.Rename.SettleTimeout <= 0:
		return fmt.Errorf("%w: rename.settle_timeout must be positive", ErrInvalidConfig)
	case c.Metrics.Enabled && c.Metrics.Addr == "":
		return fmt.Errorf("%w: metrics.addr is empty", ErrInvalidConfig)
	}
	if _, err := logging.New(c.Logging); err != nil {
		return fmt.Errorf("%w: logging: %v", ErrInvalidConfig, err)
	}
	return nil
}
