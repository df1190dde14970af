package config

// Embedded Spotify credentials injected at build time via ldflags.
// These serve as defaults and can be overridden by environment
// variables or config file.
//
// Build with:
//   go build -ldflags "-X 'github.com/cadenza/cadenza/internal/config.EmbeddedSpotifyClientID=xxx' \
//                      -X 'github.com/cadenza/cadenza/internal/config.EmbeddedSpotifyClientSecret=yyy'"
var (
	EmbeddedSpotifyClientID     string
	EmbeddedSpotifyClientSecret string
)
