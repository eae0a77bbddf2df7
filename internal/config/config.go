// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	TMDB      TMDBConfig      `toml:"tmdb"`
	Downloads DownloadsConfig `toml:"downloads"`
	Sources   SourcesConfig   `toml:"sources"`
	Quality   QualityConfig   `toml:"quality"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type TMDBConfig struct {
	APIKey string `toml:"api_key"`
}

type DownloadsConfig struct {
	Dir     string `toml:"dir"`
	Workers int    `toml:"workers"`
	Proxy   string `toml:"proxy"`
}

type SourcesConfig struct {
	// Timeout bounds each source's fetch during aggregation.
	Timeout duration `toml:"timeout"`
	// Preferred names the source whose results win ties regardless of quality.
	Preferred string                   `toml:"preferred"`
	Dirlist   map[string]DirlistSource `toml:"dirlist"`
}

// DirlistSource configures one HTTP directory-listing source.
type DirlistSource struct {
	URL        string `toml:"url"`
	MoviesPath string `toml:"movies_path"`
	TVPath     string `toml:"tv_path"`
	// Proxy overrides downloads.proxy for this source only.
	Proxy string `toml:"proxy"`
}

type QualityConfig struct {
	// Limit is the maximum acceptable quality, one of
	// 2160p, 1080p, 720p, 480p, 360p, 240p.
	Limit string `toml:"limit"`
}

// duration wraps time.Duration for TOML string decoding ("60s", "2m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// SourceTimeout returns the per-source fetch timeout.
func (c *Config) SourceTimeout() time.Duration {
	return c.Sources.Timeout.Duration
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &LoadError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8787
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/mirrarr.db"
	}
	if cfg.Downloads.Dir == "" {
		cfg.Downloads.Dir = "./downloads"
	}
	if cfg.Downloads.Workers == 0 {
		cfg.Downloads.Workers = 2
	}
	if cfg.Sources.Timeout.Duration == 0 {
		cfg.Sources.Timeout.Duration = 60 * time.Second
	}
	if cfg.Quality.Limit == "" {
		cfg.Quality.Limit = "2160p"
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &LoadError{Path: path, Invalid: errs}
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
// and reports the names of variables that are not set.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		missing = append(missing, varName)
		return match
	})
	return result, missing
}
