package provider

import (
	"context"
	"errors"
	"fmt"
)

// Movie is a catalogue entry returned by a title search
type Movie struct {
	ID            string
	Title         string
	OriginalTitle string
	Year          string
}

// Provider is the interface that all title catalogues must implement
type Provider interface {
	// Identification
	Name() string
	Description() string

	// Capability discovery
	Capabilities() ProviderCapabilities

	// Configuration
	Configure(config map[string]interface{}) error
	ConfigSchema() ConfigSchema

	// Lookups
	SearchMovies(ctx context.Context, query string) ([]Movie, error)
	AlternativeTitles(ctx context.Context, movie Movie) ([]string, error)
	LocalizedTitle(ctx context.Context, movie Movie) (string, error)
}

// ProviderCapabilities describes what a provider can do
type ProviderCapabilities struct {
	RequiresAuth      bool // Whether authentication is required
	AlternativeTitles bool // Whether AlternativeTitles returns more than the search title
	LocalizedTitles   bool // Whether LocalizedTitle honours the configured language
	Priority          int  // Default priority for this provider (higher = preferred)
}

// ConfigSchema describes the configuration requirements for a provider
type ConfigSchema struct {
	Fields []ConfigField
}

// ConfigField describes a single configuration field
type ConfigField struct {
	Name        string          // Field name
	DisplayName string          // Human-readable name
	Type        ConfigFieldType // Field type
	Required    bool            // Whether this field is required
	Default     interface{}     // Default value
	Description string          // Help text
	Sensitive   bool            // Whether this contains sensitive data (for masking)
}

// ConfigFieldType represents the type of a configuration field
type ConfigFieldType string

const (
	ConfigFieldTypeString   ConfigFieldType = "string"
	ConfigFieldTypePassword ConfigFieldType = "password"
)

// Error codes shared by all providers
const (
	CodeAuthFailed  = "AUTH_FAILED"
	CodeNotFound    = "NOT_FOUND"
	CodeRateLimited = "RATE_LIMITED"
	CodeUnavailable = "UNAVAILABLE"
	CodeUnknown     = "UNKNOWN"
)

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Message
}

// NotFound builds the error returned when a search has no results
func NotFound(providerName, query string) error {
	return &ProviderError{
		Provider: providerName,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("no results found for movie: %s", query),
	}
}

// IsNotFound reports whether err is a provider error with CodeNotFound
func IsNotFound(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == CodeNotFound
}

// ValidateConfig checks that every required field of the schema is set
func ValidateConfig(schema ConfigSchema, config map[string]interface{}) error {
	for _, field := range schema.Fields {
		if !field.Required {
			continue
		}
		value, ok := config[field.Name]
		if !ok {
			return fmt.Errorf("%s is required", field.Name)
		}
		if s, isString := value.(string); isString && s == "" {
			return fmt.Errorf("%s is required", field.Name)
		}
	}
	return nil
}
