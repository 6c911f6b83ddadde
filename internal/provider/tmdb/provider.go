package tmdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/otr-tidy/internal/provider"
	"github.com/Digital-Shane/otr-tidy/internal/util"
	"github.com/patrickmn/go-cache"
	"github.com/ryanbradynd05/go-tmdb"
)

const (
	providerName    = "tmdb"
	defaultLanguage = "de-DE"
)

// Provider implements the provider.Provider interface for TMDB
type Provider struct {
	client      TMDBClient
	cache       *cache.Cache
	language    string
	apiKey      string
	rateLimiter *util.RateLimiter
	config      map[string]interface{}
}

// TMDBClient is the subset of *tmdb.TMDb used for title lookups
type TMDBClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	GetMovieInfo(id int, options map[string]string) (*tmdb.Movie, error)
	GetMovieAlternativeTitles(id int, options map[string]string) (*tmdb.MovieAlternativeTitles, error)
}

// New creates a new TMDB provider instance
func New() *Provider {
	return &Provider{
		language: defaultLanguage,
		config:   make(map[string]interface{}),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Description returns the provider description
func (p *Provider) Description() string {
	return "The Movie Database (TMDB) title search"
}

// Capabilities returns what this provider can do
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		RequiresAuth:      true,
		AlternativeTitles: true,
		LocalizedTitles:   true,
		Priority:          100,
	}
}

// ConfigSchema returns the configuration schema for this provider
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "TMDB API key (not the Read Access Token). Get it from themoviedb.org/settings/api",
				Sensitive:   true,
			},
			{
				Name:        "language",
				DisplayName: "Language",
				Type:        provider.ConfigFieldTypeString,
				Required:    false,
				Default:     defaultLanguage,
				Description: "Language of localized titles",
			},
		},
	}
}

// Configure applies configuration to the provider
func (p *Provider) Configure(config map[string]interface{}) error {
	p.config = config

	apiKey, ok := config["api_key"].(string)
	if !ok || strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("api_key is required")
	}
	p.apiKey = strings.TrimSpace(apiKey)

	if language, ok := config["language"].(string); ok && language != "" {
		p.language = language
	} else {
		p.language = defaultLanguage
	}

	// Tests inject a client before configuring
	if p.client == nil {
		p.client = tmdb.Init(tmdb.Config{
			APIKey:   p.apiKey,
			Proxies:  nil,
			UseProxy: false,
		})
	}

	p.cache = cache.New(time.Hour, 10*time.Minute)
	p.rateLimiter = util.NewRateLimiter(38, 10*time.Second) // 38 requests per 10 seconds

	return nil
}

// mapError maps TMDB errors to provider errors
func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB authentication failed: " + err.Error(),
			Retry:    false,
		}
	}
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	}
	if strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeUnavailable,
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeUnknown,
		Message:  "TMDB error: " + err.Error(),
		Retry:    false,
	}
}
