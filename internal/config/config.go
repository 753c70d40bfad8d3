// Package config loads the server configuration from defaults, an optional
// YAML file and PORTFOLIO_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PORTFOLIO_"

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Log        LogConfig        `koanf:"log"`
	Loading    LoadingConfig    `koanf:"loading"`
	Scroll     ScrollConfig     `koanf:"scroll"`
	Visibility VisibilityConfig `koanf:"visibility"`
	Typing     TypingConfig     `koanf:"typing"`
	Matrix     MatrixConfig     `koanf:"matrix"`
	Contact    ContactConfig    `koanf:"contact"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode string `koanf:"mode"`
	// SecureCookies marks the visitor cookie Secure.
	SecureCookies bool `koanf:"secure_cookies"`
}

type DatabaseConfig struct {
	Path      string        `koanf:"path"`
	Retention time.Duration `koanf:"retention"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type LoadingConfig struct {
	Delay   time.Duration `koanf:"delay"`
	Retries int           `koanf:"retries"`
}

type ScrollConfig struct {
	ActivationLine float64 `koanf:"activation_line"`
	Threshold      float64 `koanf:"threshold"`
}

type VisibilityConfig struct {
	Threshold float64 `koanf:"threshold"`
	Margin    float64 `koanf:"margin"`
}

type TypingConfig struct {
	Interval   time.Duration `koanf:"interval"`
	StartDelay time.Duration `koanf:"start_delay"`
	Pause      time.Duration `koanf:"pause"`
}

type MatrixConfig struct {
	Enabled       bool          `koanf:"enabled"`
	FrameInterval time.Duration `koanf:"frame_interval"`
}

type ContactConfig struct {
	SubmitDelay time.Duration `koanf:"submit_delay"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Database: DatabaseConfig{
			Path:      "data/portfolio.db",
			Retention: 365 * 24 * time.Hour,
		},
		Log: LogConfig{Level: "info"},
		Loading: LoadingConfig{
			Delay:   1500 * time.Millisecond,
			Retries: 2,
		},
		Scroll: ScrollConfig{
			ActivationLine: 100,
			Threshold:      50,
		},
		Visibility: VisibilityConfig{
			Threshold: 0.1,
			Margin:    100,
		},
		Typing: TypingConfig{
			Interval:   100 * time.Millisecond,
			StartDelay: 2 * time.Second,
			Pause:      2 * time.Second,
		},
		Matrix: MatrixConfig{
			Enabled:       true,
			FrameInterval: 35 * time.Millisecond,
		},
		Contact: ContactConfig{SubmitDelay: 2 * time.Second},
	}
}

// Load reads the YAML file at path when it exists, then overlays environment
// variables: PORTFOLIO_SERVER__ADDR sets server.addr. A bare PORT variable
// still sets the listen port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && os.Getenv(envPrefix+"SERVER__ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}
	return cfg, nil
}

var validModes = map[string]bool{"debug": true, "release": true, "test": true}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if !validModes[c.Server.Mode] {
		errs = append(errs, fmt.Errorf("invalid server.mode %q: must be one of debug, release, test", c.Server.Mode))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Loading.Delay < 0 {
		errs = append(errs, errors.New("loading.delay must be non-negative"))
	}
	if c.Loading.Retries < 0 {
		errs = append(errs, errors.New("loading.retries must be non-negative"))
	}
	if c.Typing.Interval <= 0 {
		errs = append(errs, errors.New("typing.interval must be positive"))
	}
	if c.Matrix.FrameInterval <= 0 {
		errs = append(errs, errors.New("matrix.frame_interval must be positive"))
	}
	if c.Visibility.Threshold <= 0 || c.Visibility.Threshold > 1 {
		errs = append(errs, errors.New("visibility.threshold must be in (0, 1]"))
	}
	if c.Scroll.Threshold < 0 {
		errs = append(errs, errors.New("scroll.threshold must be non-negative"))
	}
	return errors.Join(errs...)
}
