// Package builtin registers the bundled title providers. It lives outside
// package provider to avoid import cycles.
package builtin

import (
	"fmt"

	"github.com/Digital-Shane/otr-tidy/internal/provider"
	"github.com/Digital-Shane/otr-tidy/internal/provider/omdb"
	"github.com/Digital-Shane/otr-tidy/internal/provider/tmdb"
)

// Load registers every built-in provider with reg. Providers start disabled
// until configured.
func Load(reg *provider.Registry) error {
	tmdbProvider := tmdb.New()
	if err := reg.Register(tmdbProvider.Name(), tmdbProvider, tmdbProvider.Capabilities().Priority); err != nil {
		return fmt.Errorf("failed to register TMDB provider: %w", err)
	}

	omdbProvider := omdb.New()
	if err := reg.Register(omdbProvider.Name(), omdbProvider, omdbProvider.Capabilities().Priority); err != nil {
		return fmt.Errorf("failed to register OMDb provider: %w", err)
	}

	return nil
}

// NewRegistry returns a registry with all built-in providers loaded.
func NewRegistry() (*provider.Registry, error) {
	reg := provider.NewRegistry()
	if err := Load(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
