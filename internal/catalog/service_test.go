package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cadenza/cadenza/internal/catalog/mock"
	"github.com/cadenza/cadenza/internal/catalog/spotify"
	"github.com/cadenza/cadenza/internal/config"
)

func setupTestServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			json.NewEncoder(w).Encode(spotify.TokenResponse{
				AccessToken: "test-token", TokenType: "Bearer", ExpiresIn: 3600,
			})
		case "/v1/search":
			json.NewEncoder(w).Encode(spotify.SearchResponse{
				Tracks: spotify.TrackPage{
					Items: []spotify.TrackItem{
						{
							ID:      "track-2",
							Name:    "Nightcall",
							Artists: []spotify.Artist{{Name: "Kavinsky"}},
							Album:   spotify.Album{Name: "Nightcall", ReleaseDate: "2010-04-05"},
						},
						{
							ID:         "track-1",
							Name:       "Night Fever",
							Artists:    []spotify.Artist{{Name: "Bee Gees"}},
							Album:      spotify.Album{Name: "Saturday Night Fever", ReleaseDate: "1977-11-15"},
							Popularity: 70,
						},
					},
				},
			})
		case "/v1/tracks/track-1":
			json.NewEncoder(w).Encode(spotify.TrackItem{
				ID:         "track-1",
				Name:       "Night Fever",
				Artists:    []spotify.Artist{{Name: "Bee Gees"}},
				Album:      spotify.Album{Name: "Saturday Night Fever", ReleaseDate: "1977-11-15"},
				Popularity: 70,
				DurationMS: 213000,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testConfig(serverURL string) *config.Config {
	return &config.Config{
		Spotify: config.SpotifyConfig{
			ClientID:       "test-id",
			ClientSecret:   "test-secret",
			AuthURL:        serverURL + "/api/token",
			BaseURL:        serverURL + "/v1",
			TimeoutSeconds: 5,
		},
		Search: config.SearchConfig{
			PoolSize:        50,
			CacheTTLMinutes: 10,
			DefaultLimit:    10,
			MaxLimit:        50,
		},
	}
}

func TestService_QuickFind(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	logger := zerolog.Nop()
	svc := NewService(testConfig(server.URL), &logger)

	results, err := svc.QuickFind(context.Background(), "Night Fever", 10)
	if err != nil {
		t.Fatalf("QuickFind() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Exact title match ranks ahead of the substring match regardless of
	// provider order
	if results[0].Track.Name != "Night Fever" {
		t.Errorf("top result = %q, want %q", results[0].Track.Name, "Night Fever")
	}
	if !results[0].IsExactMatch {
		t.Error("expected top result to be an exact match")
	}
	if results[1].IsExactMatch {
		t.Error("expected second result to be a partial match")
	}
}

func TestService_QuickFind_PoolCaching(t *testing.T) {
	searchCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			json.NewEncoder(w).Encode(spotify.TokenResponse{AccessToken: "test-token", ExpiresIn: 3600})
		case "/v1/search":
			searchCalls++
			json.NewEncoder(w).Encode(spotify.SearchResponse{
				Tracks: spotify.TrackPage{
					Items: []spotify.TrackItem{
						{ID: "track-1", Name: "Night Fever", Artists: []spotify.Artist{{Name: "Bee Gees"}}},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	logger := zerolog.Nop()
	svc := NewService(testConfig(server.URL), &logger)

	// First call fetches the pool
	if _, err := svc.QuickFind(context.Background(), "night fever", 10); err != nil {
		t.Fatalf("first QuickFind() error = %v", err)
	}

	// Second call with a different limit reuses the cached pool
	if _, err := svc.QuickFind(context.Background(), "night fever", 1); err != nil {
		t.Fatalf("second QuickFind() error = %v", err)
	}

	if searchCalls != 1 {
		t.Errorf("expected 1 provider search, got %d", searchCalls)
	}
}

func TestService_QuickFind_NotConfigured(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &config.Config{
		Search: config.SearchConfig{PoolSize: 50, DefaultLimit: 10, MaxLimit: 50},
	}
	svc := NewService(cfg, &logger)

	_, err := svc.QuickFind(context.Background(), "anything", 10)
	if !errors.Is(err, ErrNoProviderConfigured) {
		t.Errorf("expected ErrNoProviderConfigured, got %v", err)
	}
}

func TestService_QuickFind_MaxLimit(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Search.MaxLimit = 1

	logger := zerolog.Nop()
	svc := NewService(cfg, &logger)

	results, err := svc.QuickFind(context.Background(), "night", 10)
	if err != nil {
		t.Fatalf("QuickFind() error = %v", err)
	}

	if len(results) != 1 {
		t.Errorf("expected limit clamped to 1 result, got %d", len(results))
	}
}

func TestService_SearchTracks_PreservesProviderOrder(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	logger := zerolog.Nop()
	svc := NewService(testConfig(server.URL), &logger)

	tracks, err := svc.SearchTracks(context.Background(), "night", 10)
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}

	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Name != "Nightcall" {
		t.Errorf("first track = %q, want provider order preserved", tracks[0].Name)
	}
}

func TestService_GetTrack(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	logger := zerolog.Nop()
	svc := NewService(testConfig(server.URL), &logger)

	track, err := svc.GetTrack(context.Background(), "track-1")
	if err != nil {
		t.Fatalf("GetTrack() error = %v", err)
	}

	if track.Name != "Night Fever" {
		t.Errorf("Name = %q, want %q", track.Name, "Night Fever")
	}
	if track.Artist != "Bee Gees" {
		t.Errorf("Artist = %q, want %q", track.Artist, "Bee Gees")
	}
	if track.Year != 1977 {
		t.Errorf("Year = %d, want %d", track.Year, 1977)
	}
}

func TestService_GetTrack_NotFound(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	logger := zerolog.Nop()
	svc := NewService(testConfig(server.URL), &logger)

	_, err := svc.GetTrack(context.Background(), "unknown")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_SetProvider(t *testing.T) {
	server := setupTestServer(t)
	defer server.Close()

	logger := zerolog.Nop()
	svc := NewService(testConfig(server.URL), &logger)

	// Warm the cache with the live provider
	if _, err := svc.QuickFind(context.Background(), "night", 10); err != nil {
		t.Fatalf("QuickFind() error = %v", err)
	}
	if svc.Status().CacheEntries == 0 {
		t.Fatal("expected cache to be warm")
	}

	svc.SetProvider(mock.NewProvider())

	status := svc.Status()
	if status.Provider != "spotify-mock" {
		t.Errorf("Provider = %q, want %q", status.Provider, "spotify-mock")
	}
	if status.CacheEntries != 0 {
		t.Errorf("expected cache cleared on provider switch, got %d entries", status.CacheEntries)
	}
}
