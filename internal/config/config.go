// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Capture CaptureConfig `mapstructure:"capture"`
	Render  RenderConfig  `mapstructure:"render"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	RequestTimeout int `mapstructure:"request_timeout_seconds"`
}

// FetchConfig governs the relay fetch chain. MinMarkupBytes and AttemptDelayMs
// are empirically chosen; treat them as tunables, not contractual values.
type FetchConfig struct {
	UserAgent       string `mapstructure:"user_agent"`
	DirectEnabled   bool   `mapstructure:"direct_enabled"`
	MinMarkupBytes  int    `mapstructure:"min_markup_bytes"`
	AttemptDelayMs  int    `mapstructure:"attempt_delay_ms"`
	DirectTimeoutMs int    `mapstructure:"direct_timeout_ms"`
}

// CaptureConfig governs the external screenshot tier and synthetic fallback.
type CaptureConfig struct {
	MinImageBytes    int `mapstructure:"min_image_bytes"`
	EndpointTimeoutS int `mapstructure:"endpoint_timeout_seconds"`
}

// RenderConfig configures the in-process chromedp rasterization tier.
type RenderConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	MaxParallel   int     `mapstructure:"max_parallel"`
	TimeoutS      int     `mapstructure:"timeout_seconds"`
	SettleDelayMs int     `mapstructure:"settle_delay_ms"`
	DomainQPS     float64 `mapstructure:"domain_qps"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SITELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 90)
	v.SetDefault("fetch.user_agent", "sitelens-bot/1.0 (+https://github.com/Luigi-p-git/sitelens)")
	v.SetDefault("fetch.direct_enabled", true)
	v.SetDefault("fetch.min_markup_bytes", 300)
	v.SetDefault("fetch.attempt_delay_ms", 800)
	v.SetDefault("fetch.direct_timeout_ms", 8000)
	v.SetDefault("capture.min_image_bytes", 4096)
	v.SetDefault("capture.endpoint_timeout_seconds", 12)
	v.SetDefault("render.enabled", false)
	v.SetDefault("render.max_parallel", 1)
	v.SetDefault("render.timeout_seconds", 25)
	v.SetDefault("render.settle_delay_ms", 2000)
	v.SetDefault("render.domain_qps", 0.5)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	if c.Fetch.MinMarkupBytes < 0 {
		return fmt.Errorf("fetch.min_markup_bytes must be >= 0")
	}
	if c.Capture.MinImageBytes < 0 {
		return fmt.Errorf("capture.min_image_bytes must be >= 0")
	}
	if c.Render.Enabled && c.Render.MaxParallel <= 0 {
		return fmt.Errorf("render.max_parallel must be > 0 when render is enabled")
	}
	return nil
}

// AttemptDelay returns the inter-relay delay as a duration.
func (c FetchConfig) AttemptDelay() time.Duration {
	return time.Duration(c.AttemptDelayMs) * time.Millisecond
}

// DirectTimeout returns the direct-fetch timeout as a duration.
func (c FetchConfig) DirectTimeout() time.Duration {
	return time.Duration(c.DirectTimeoutMs) * time.Millisecond
}

// EndpointTimeout returns the per-endpoint capture timeout as a duration.
func (c CaptureConfig) EndpointTimeout() time.Duration {
	return time.Duration(c.EndpointTimeoutS) * time.Second
}

// Timeout returns the render navigation timeout as a duration.
func (c RenderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutS) * time.Second
}

// SettleDelay returns how long the renderer waits before rasterizing.
func (c RenderConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}
