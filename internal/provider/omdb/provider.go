package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/otr-tidy/internal/provider"
)

const providerName = "omdb"

// Provider implements the provider.Provider interface for OMDb.
type Provider struct {
	client     *omdb.Client
	httpClient *http.Client
	apiKey     string
	config     map[string]interface{}
}

// New creates a new OMDb provider instance.
func New() *Provider {
	return &Provider{
		config: make(map[string]interface{}),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "Open Movie Database (OMDb) title search"
}

// Capabilities returns what this provider can handle. OMDb has neither
// alternative nor localized titles.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		RequiresAuth: true,
		Priority:     90,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "OMDb API key. Request one from https://www.omdbapi.com/apikey.aspx",
				Sensitive:   true,
			},
		},
	}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	// Allow overriding the HTTP client before configuration (useful for tests).
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	p.apiKey = apiKey
	p.config = config
	p.client = omdb.NewClient(p.apiKey, p.httpClient)

	return nil
}

// SearchMovies looks up the best matching movie for query. OMDb's title
// endpoint returns a single result.
func (p *Provider) SearchMovies(ctx context.Context, query string) ([]provider.Movie, error) {
	if p.client == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, provider.NotFound(providerName, query)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.client.SearchByTitle(omdb.QueryData{
		Title:      query,
		SearchType: "movie",
	})
	if err != nil {
		return nil, p.mapError(err)
	}

	var movie omdb.MovieResult
	switch r := result.(type) {
	case omdb.MovieResult:
		movie = r
	case *omdb.MovieResult:
		if r != nil {
			movie = *r
		}
	}
	if movie.Title == "" {
		return nil, provider.NotFound(providerName, query)
	}

	return []provider.Movie{{
		ID:            movie.ImdbID,
		Title:         movie.Title,
		OriginalTitle: movie.Title,
		Year:          omdb.FirstYear(movie.Year),
	}}, nil
}

// AlternativeTitles returns only the search title.
func (p *Provider) AlternativeTitles(ctx context.Context, movie provider.Movie) ([]string, error) {
	return []string{movie.Title}, ctx.Err()
}

// LocalizedTitle returns the search title since OMDb is English only.
func (p *Provider) LocalizedTitle(ctx context.Context, movie provider.Movie) (string, error) {
	return movie.Title, ctx.Err()
}

func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "OMDb authentication failed: " + msg,
			Retry:    false,
		}
	case strings.Contains(lower, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  msg,
			Retry:    false,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    msg,
			Retry:      true,
			RetryAfter: 5,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnknown,
			Message:  msg,
			Retry:    false,
		}
	}
}
