package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cadenza/cadenza/internal/catalog/spotify"
	"github.com/cadenza/cadenza/internal/config"
	"github.com/cadenza/cadenza/internal/search"
)

var (
	ErrNoProviderConfigured = errors.New("no catalog provider configured")
	ErrNotFound             = errors.New("track not found")
)

// Service orchestrates the catalog provider, response cache, and scorer.
type Service struct {
	provider Provider
	scorer   *search.Scorer
	cache    *Cache
	cfg      config.SearchConfig
	logger   zerolog.Logger
}

// NewService creates a catalog service backed by the Spotify client.
func NewService(cfg *config.Config, logger *zerolog.Logger) *Service {
	return NewServiceWithProvider(spotify.NewClient(cfg.Spotify, *logger), cfg.Search, logger)
}

// NewServiceWithProvider creates a catalog service with a custom provider
// (used by developer mode and tests).
func NewServiceWithProvider(provider Provider, searchCfg config.SearchConfig, logger *zerolog.Logger) *Service {
	if searchCfg.PoolSize <= 0 {
		searchCfg.PoolSize = 50
	}

	cacheCfg := DefaultCacheConfig()
	if searchCfg.CacheTTLMinutes > 0 {
		cacheCfg.TTL = time.Duration(searchCfg.CacheTTLMinutes) * time.Minute
	}

	return &Service{
		provider: provider,
		scorer:   search.NewDefaultScorer(),
		cache:    NewCache(cacheCfg),
		cfg:      searchCfg,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
}

// SetProvider replaces the catalog provider (for dev mode switching).
func (s *Service) SetProvider(provider Provider) {
	s.provider = provider
	s.cache.Clear()
}

// Provider returns the active provider name.
func (s *Service) Provider() string {
	return s.provider.Name()
}

// QuickFind fetches a candidate pool for query and ranks it with the
// relevance scorer. The pool is cached per query; ranking runs on every
// call. Limit semantics follow the scorer: negative means all matches,
// zero means none.
func (s *Service) QuickFind(ctx context.Context, query string, limit int) ([]search.Result, error) {
	if !s.provider.IsConfigured() {
		return nil, ErrNoProviderConfigured
	}

	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	pool, err := s.trackPool(ctx, query)
	if err != nil {
		return nil, err
	}

	results := s.scorer.Search(pool, query, limit)

	s.logger.Debug().
		Str("query", query).
		Int("pool", len(pool)).
		Int("results", len(results)).
		Msg("quick find completed")

	return results, nil
}

// trackPool returns the cached candidate pool for a query, fetching from
// the provider on a miss.
func (s *Service) trackPool(ctx context.Context, query string) ([]search.Track, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	cacheKey := fmt.Sprintf("tracks:search:%s:%d", normalized, s.cfg.PoolSize)
	if tracks, ok := s.cache.GetTracks(cacheKey); ok {
		s.logger.Debug().Str("query", query).Msg("track pool cache hit")
		return tracks, nil
	}

	tracks, err := s.provider.SearchTracks(ctx, query, s.cfg.PoolSize)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("provider search failed")
		return nil, fmt.Errorf("track search failed: %w", err)
	}

	s.cache.Set(cacheKey, tracks)
	return tracks, nil
}

// SearchTracks proxies a raw provider search without ranking.
func (s *Service) SearchTracks(ctx context.Context, query string, limit int) ([]search.Track, error) {
	if !s.provider.IsConfigured() {
		return nil, ErrNoProviderConfigured
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	cacheKey := fmt.Sprintf("tracks:raw:%s:%d", normalized, limit)
	if tracks, ok := s.cache.GetTracks(cacheKey); ok {
		s.logger.Debug().Str("query", query).Msg("raw search cache hit")
		return tracks, nil
	}

	tracks, err := s.provider.SearchTracks(ctx, query, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("provider search failed")
		return nil, fmt.Errorf("track search failed: %w", err)
	}

	s.cache.Set(cacheKey, tracks)

	s.logger.Info().
		Str("query", query).
		Int("results", len(tracks)).
		Msg("track search completed")

	return tracks, nil
}

// GetTrack gets track details by provider ID.
func (s *Service) GetTrack(ctx context.Context, id string) (*search.Track, error) {
	if !s.provider.IsConfigured() {
		return nil, ErrNoProviderConfigured
	}

	cacheKey := "track:" + id
	if track, ok := s.cache.GetTrack(cacheKey); ok {
		return track, nil
	}

	track, err := s.provider.GetTrack(ctx, id)
	if err != nil {
		if errors.Is(err, spotify.ErrTrackNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("id", id).Msg("provider lookup failed")
		return nil, fmt.Errorf("get track failed: %w", err)
	}

	s.cache.Set(cacheKey, track)
	return track, nil
}

// Status describes the provider and cache state.
type Status struct {
	Provider     string `json:"provider"`
	Configured   bool   `json:"configured"`
	CacheEntries int    `json:"cacheEntries"`
	PoolSize     int    `json:"poolSize"`
}

// Status reports the current provider and cache state.
func (s *Service) Status() Status {
	return Status{
		Provider:     s.provider.Name(),
		Configured:   s.provider.IsConfigured(),
		CacheEntries: s.cache.Len(),
		PoolSize:     s.cfg.PoolSize,
	}
}

// ClearCache drops all cached provider responses.
func (s *Service) ClearCache() {
	s.cache.Clear()
}
