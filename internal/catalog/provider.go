// Package catalog orchestrates track search across the upstream provider,
// the response cache, and the relevance scorer.
package catalog

import (
	"context"

	"github.com/cadenza/cadenza/internal/search"
)

// Provider defines the interface for catalog providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// IsConfigured returns true if the provider has required configuration.
	IsConfigured() bool

	// SearchTracks searches the catalog for tracks.
	SearchTracks(ctx context.Context, query string, limit int) ([]search.Track, error)

	// GetTrack gets track details by ID.
	GetTrack(ctx context.Context, id string) (*search.Track, error)
}
