// Package config loads the otr-tidy settings file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the user settings. Zero values are replaced by defaults on load.
type Config struct {
	GuideURL          string `toml:"guide_url"`
	RequestTimeout    int    `toml:"request_timeout"`
	RequestsPerWindow int    `toml:"requests_per_window"`
	RateWindow        int    `toml:"rate_window"`

	// Movie title lookup
	TitleMethod   string `toml:"title_method"`
	TitleProvider string `toml:"title_provider"`
	TMDBAPIKey    string `toml:"tmdb_api_key"`
	TMDBLanguage  string `toml:"tmdb_language"`
	OMDBAPIKey    string `toml:"omdb_api_key"`

	EnableLogging    bool `toml:"enable_logging"`
	LogRetentionDays int  `toml:"log_retention_days"`

	// ChannelOverrides maps recorder channel codes to guide channel names and
	// extends the built in table.
	ChannelOverrides map[string]string `toml:"channel_overrides"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		GuideURL:          "https://www.fernsehserien.de/",
		RequestTimeout:    20,
		RequestsPerWindow: 20,
		RateWindow:        10,
		TitleMethod:       "none",
		TitleProvider:     "tmdb",
		TMDBLanguage:      "de-DE",
		EnableLogging:     true,
		LogRetentionDays:  30,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".otr-tidy", "config.toml"), nil
}

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path. A missing file yields the
// defaults. TMDB_API_KEY and OMDB_API_KEY override the keys in the file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Fill in any missing fields with defaults
	defaults := DefaultConfig()
	if cfg.GuideURL == "" {
		cfg.GuideURL = defaults.GuideURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.RequestsPerWindow < 0 {
		cfg.RequestsPerWindow = defaults.RequestsPerWindow
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = defaults.RateWindow
	}
	if cfg.TitleMethod == "" {
		cfg.TitleMethod = defaults.TitleMethod
	}
	if cfg.TitleProvider == "" {
		cfg.TitleProvider = defaults.TitleProvider
	}
	if cfg.TMDBLanguage == "" {
		cfg.TMDBLanguage = defaults.TMDBLanguage
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}

	if key := strings.TrimSpace(os.Getenv("TMDB_API_KEY")); key != "" {
		cfg.TMDBAPIKey = key
	}
	if key := strings.TrimSpace(os.Getenv("OMDB_API_KEY")); key != "" {
		cfg.OMDBAPIKey = key
	}

	cfg.TitleProvider = strings.ToLower(strings.TrimSpace(cfg.TitleProvider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (cfg *Config) Validate() error {
	switch cfg.TitleProvider {
	case "tmdb", "omdb":
	default:
		return fmt.Errorf("title_provider must be tmdb or omdb, got %q", cfg.TitleProvider)
	}
	if !strings.HasPrefix(cfg.GuideURL, "http://") && !strings.HasPrefix(cfg.GuideURL, "https://") {
		return fmt.Errorf("guide_url must be an http(s) URL, got %q", cfg.GuideURL)
	}
	for code, channel := range cfg.ChannelOverrides {
		if strings.TrimSpace(code) == "" || strings.TrimSpace(channel) == "" {
			return fmt.Errorf("channel_overrides entries must not be empty (%q = %q)", code, channel)
		}
	}
	return nil
}

// Timeout returns the per request timeout of the guide fetcher.
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.RequestTimeout) * time.Second
}

// Window returns the length of the guide rate limit window.
func (cfg *Config) Window() time.Duration {
	return time.Duration(cfg.RateWindow) * time.Second
}

// ProviderConfig returns the settings handed to the named title provider.
func (cfg *Config) ProviderConfig(name string) map[string]interface{} {
	switch name {
	case "tmdb":
		return map[string]interface{}{
			"api_key":  cfg.TMDBAPIKey,
			"language": cfg.TMDBLanguage,
		}
	case "omdb":
		return map[string]interface{}{
			"api_key": cfg.OMDBAPIKey,
		}
	}
	return map[string]interface{}{}
}

// Save writes the configuration to the default location.
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (cfg *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
