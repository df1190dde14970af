// Package mock provides a fixture-backed catalog provider for developer mode.
package mock

import (
	"context"
	"strings"

	"github.com/cadenza/cadenza/internal/catalog/spotify"
	"github.com/cadenza/cadenza/internal/search"
)

// Provider serves a static track catalog without network access.
type Provider struct{}

// NewProvider creates a new mock catalog provider.
func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "spotify-mock"
}

func (p *Provider) IsConfigured() bool {
	return true
}

// SearchTracks filters the fixture catalog by substring. When nothing
// matches it returns the head of the catalog so developer mode always has
// data to show.
func (p *Provider) SearchTracks(ctx context.Context, query string, limit int) ([]search.Track, error) {
	query = strings.ToLower(query)
	var results []search.Track

	for i := range mockTracks {
		track := &mockTracks[i]
		if strings.Contains(strings.ToLower(track.Name), query) ||
			strings.Contains(strings.ToLower(track.Artist), query) ||
			strings.Contains(strings.ToLower(track.Album), query) ||
			strings.Contains(strings.ToLower(track.Genre), query) {
			results = append(results, *track)
		}
	}

	if len(results) == 0 {
		n := len(mockTracks)
		if limit > 0 && limit < n {
			n = limit
		}
		results = append(results, mockTracks[:n]...)
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// GetTrack looks a track up by ID in the fixture catalog.
func (p *Provider) GetTrack(ctx context.Context, id string) (*search.Track, error) {
	for i := range mockTracks {
		if mockTracks[i].ID == id {
			track := mockTracks[i]
			return &track, nil
		}
	}
	return nil, spotify.ErrTrackNotFound
}
