// Package spotify provides a Spotify Web API client for track search.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cadenza/cadenza/internal/config"
	"github.com/cadenza/cadenza/internal/search"
)

var (
	ErrCredentialsMissing = errors.New("Spotify credentials are not configured")
	ErrTrackNotFound      = errors.New("track not found")
	ErrAPIError           = errors.New("Spotify API error")
	ErrAuthFailed         = errors.New("Spotify authentication failed")
	ErrRateLimited        = errors.New("Spotify API rate limited")
)

// Client is a Spotify Web API client using the client-credentials flow.
type Client struct {
	httpClient *http.Client
	config     config.SpotifyConfig
	logger     zerolog.Logger

	// Token management
	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a new Spotify client.
func NewClient(cfg config.SpotifyConfig, logger zerolog.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "spotify").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "spotify"
}

// IsConfigured returns true if client credentials are set.
func (c *Client) IsConfigured() bool {
	return c.config.ClientID != "" && c.config.ClientSecret != ""
}

// authenticate gets or refreshes the bearer token.
func (c *Client) authenticate(ctx context.Context) error {
	c.mu.RLock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.config.ClientID + ":" + c.config.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Msg("Spotify authentication failed")
		return ErrAuthFailed
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	c.token = tokenResp.AccessToken
	// Refresh a minute before the token actually expires
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)

	c.logger.Debug().Msg("Spotify authentication successful")
	return nil
}

// SearchTracks searches the catalog for tracks matching query.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]search.Track, error) {
	if !c.IsConfigured() {
		return nil, ErrCredentialsMissing
	}

	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	// Spotify accepts limits between 1 and 50
	if limit < 1 {
		limit = 20
	} else if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("%s/search", c.config.BaseURL)
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	var response SearchResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	tracks := make([]search.Track, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		tracks = append(tracks, trackFromItem(item))
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(tracks)).
		Msg("track search completed")

	return tracks, nil
}

// GetTrack gets a single track by Spotify ID.
func (c *Client) GetTrack(ctx context.Context, id string) (*search.Track, error) {
	if !c.IsConfigured() {
		return nil, ErrCredentialsMissing
	}

	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/tracks/%s", c.config.BaseURL, url.PathEscape(id))

	var item TrackItem
	if err := c.doRequest(ctx, endpoint, nil, &item); err != nil {
		return nil, err
	}

	track := trackFromItem(item)

	c.logger.Debug().
		Str("id", id).
		Str("name", track.Name).
		Msg("got track details")

	return &track, nil
}

// doRequest performs an HTTP GET request with the cached bearer token.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrTrackNotFound
		case http.StatusUnauthorized:
			// Token might be expired, clear it
			c.mu.Lock()
			c.token = ""
			c.mu.Unlock()
			return fmt.Errorf("%w: unauthorized", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// trackFromItem converts a Spotify track object into a catalog track.
// Track objects carry no genre; the field stays empty.
func trackFromItem(item TrackItem) search.Track {
	artists := make([]string, 0, len(item.Artists))
	for _, a := range item.Artists {
		artists = append(artists, a.Name)
	}

	imageURL := ""
	if len(item.Album.Images) > 0 {
		imageURL = item.Album.Images[0].URL
	}

	return search.Track{
		ID:         item.ID,
		Name:       item.Name,
		Artist:     strings.Join(artists, ", "),
		Album:      item.Album.Name,
		Year:       yearFromReleaseDate(item.Album.ReleaseDate),
		Popularity: item.Popularity,
		ImageURL:   imageURL,
		PreviewURL: item.PreviewURL,
		DurationMS: item.DurationMS,
	}
}

// yearFromReleaseDate parses the year out of a release date, which may be
// "2020", "2020-03", or "2020-03-20" depending on precision.
func yearFromReleaseDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
