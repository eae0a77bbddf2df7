package config

import "fmt"

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// validQualityLimits is the fixed ordered set of acceptable quality caps.
var validQualityLimits = map[string]bool{
	"2160p": true, "1080p": true, "720p": true,
	"480p": true, "360p": true, "240p": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required")
	}

	if c.Downloads.Workers < 1 {
		errs = append(errs, fmt.Sprintf("downloads.workers: must be at least 1, got %d", c.Downloads.Workers))
	}
	if c.Downloads.Dir == "" {
		errs = append(errs, "downloads.dir: required")
	}

	if c.Sources.Timeout.Duration <= 0 {
		errs = append(errs, "sources.timeout: must be positive")
	}
	for name, src := range c.Sources.Dirlist {
		if src.URL == "" {
			errs = append(errs, fmt.Sprintf("sources.dirlist.%s.url: required", name))
		}
	}

	if !validQualityLimits[c.Quality.Limit] {
		errs = append(errs, fmt.Sprintf("quality.limit: must be one of 2160p, 1080p, 720p, 480p, 360p, 240p; got %q", c.Quality.Limit))
	}

	return errs
}
