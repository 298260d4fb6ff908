// Package config defines service configuration and its koanf loader.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/tierlist/internal/adapters/export"
	"github.com/okian/tierlist/internal/domain/board"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text, json or pretty output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Tiers are the ranked rows, top first.
	Tiers []board.TierSpec `koanf:"tiers"`

	// EthosBaseURL is the root of the Ethos API.
	EthosBaseURL string `koanf:"ethos_base_url"`

	// EthosTimeoutMS bounds one lookup. Zero means no timeout.
	EthosTimeoutMS int `koanf:"ethos_timeout_ms"`

	ExportBackground string  `koanf:"export_background"`
	ExportScale      float64 `koanf:"export_scale"`
	ExportUseCORS    bool    `koanf:"export_use_cors"`
	ExportAllowTaint bool    `koanf:"export_allow_taint"`

	// DownloadDir receives images saved by the download action.
	DownloadDir string `koanf:"download_dir"`

	// QueueSize bounds the command queue in front of the dispatcher.
	QueueSize int `koanf:"queue_size"`
}

// New returns a Config populated with defaults.
func New() *Config {
	opts := export.DefaultOptions()
	return &Config{
		LogLevel:         "info",
		LogFormat:        "pretty",
		Addr:             ":8080",
		Tiers:            board.DefaultTiers(),
		EthosBaseURL:     "https://api.ethos.network",
		EthosTimeoutMS:   0,
		ExportBackground: opts.BackgroundColor,
		ExportScale:      opts.Scale,
		ExportUseCORS:    opts.UseCORS,
		ExportAllowTaint: opts.AllowTaint,
		DownloadDir:      ".",
		QueueSize:        256,
	}
}

// EthosTimeout returns the lookup timeout as a duration.
func (c *Config) EthosTimeout() time.Duration {
	return time.Duration(c.EthosTimeoutMS) * time.Millisecond
}

// ExportOptions returns the configured screenshot options.
func (c *Config) ExportOptions() export.Options {
	return export.Options{
		BackgroundColor: c.ExportBackground,
		Scale:           c.ExportScale,
		UseCORS:         c.ExportUseCORS,
		AllowTaint:      c.ExportAllowTaint,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case len(c.Tiers) == 0:
		return fmt.Errorf("%w: at least one tier is required", ErrInvalidConfig)
	case c.EthosTimeoutMS < 0:
		return fmt.Errorf("%w: ethos_timeout_ms must not be negative", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if _, err := board.New(c.Tiers); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.ExportOptions().Validate(); err != nil {
		return fmt.Errorf("%w: export: %w", ErrInvalidConfig, err)
	}
	return nil
}
