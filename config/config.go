// Copyright 2026 The rasdaman WCPS Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package config loads the settings of the wcps
// command from a YAML file, WCPS_* environment
// variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rasdaman/wcps/auth"
	"github.com/rasdaman/wcps/service"
)

// EnvPrefix is the prefix of environment
// variables overriding configuration keys,
// e.g. WCPS_ENDPOINT or WCPS_READ_TIMEOUT.
const EnvPrefix = "WCPS"

// Default configuration values.
const (
	DefaultConnectTimeout = service.DefaultConnectTimeout
	DefaultReadTimeout    = service.DefaultReadTimeout
	DefaultLogLevel       = "warn"
	DefaultCacheSize      = 0
)

// Sentinel validation errors.
var (
	ErrMissingEndpoint = errors.New("no endpoint configured")
	ErrInvalidTimeout  = errors.New("timeouts must be positive")
	ErrInvalidCache    = errors.New("cache size must not be negative")
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config holds the client configuration.
type Config struct {
	// Endpoint is the WCS service URL,
	// e.g. https://ows.rasdaman.org/rasdaman/ows
	Endpoint string `mapstructure:"endpoint"`
	// Auth is a credential string; see auth.Parse.
	Auth           string        `mapstructure:"auth"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	// CacheSize is the number of Execute
	// results kept in memory; 0 disables it.
	CacheSize int `mapstructure:"cache_size"`
}

// keys lists every configuration key. Flags
// are bound under the same name with '_'
// replaced by '-'.
var keys = []string{
	"endpoint",
	"auth",
	"connect_timeout",
	"read_timeout",
	"log_level",
	"cache_size",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "")
	v.SetDefault("auth", "")
	v.SetDefault("connect_timeout", DefaultConnectTimeout)
	v.SetDefault("read_timeout", DefaultReadTimeout)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("cache_size", DefaultCacheSize)
}

// Load reads the configuration. When path is empty,
// wcps.yaml is looked up in the working directory and
// in the user configuration directory, and a missing
// file is not an error. Flags in fs (which may be nil)
// that were set on the command line take precedence.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wcps")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "wcps"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for _, key := range keys {
			f := fs.Lookup(strings.ReplaceAll(key, "_", "-"))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", f.Name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration values.
// An empty Endpoint is allowed; it is only
// required by NewClient.
func (c *Config) Validate() error {
	if c.ConnectTimeout <= 0 || c.ReadTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCache, c.CacheSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return lvl, nil
}

// Logger returns a text logger writing to w
// at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// NewClient builds a service client
// from the configuration.
func (c *Config) NewClient(logger *slog.Logger) (*service.Client, error) {
	if c.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	creds, err := auth.Parse(c.Auth)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	return service.New(c.Endpoint,
		service.WithCredentials(creds),
		service.WithLogger(logger),
		service.WithTimeouts(c.ConnectTimeout, c.ReadTimeout),
		service.WithCache(service.NewCache(c.CacheSize)),
	)
}
