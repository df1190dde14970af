// Package search implements the in-memory relevance scorer behind the
// quick-find endpoint.
package search

// Track is a catalog entry as normalized by a provider. String fields are
// empty and numeric fields zero when the upstream record omits them; the
// scorer treats those as absent rather than matching on zero values.
type Track struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Title         string `json:"title,omitempty"`
	OriginalTitle string `json:"originalTitle,omitempty"`
	Artist        string `json:"artist"`
	Album         string `json:"album,omitempty"`
	Overview      string `json:"overview,omitempty"`
	Genre         string `json:"genre,omitempty"`
	Year          int    `json:"year,omitempty"`
	Popularity    int    `json:"popularity,omitempty"`

	// Transport fields carried through from the provider. The scorer
	// ignores them.
	ImageURL   string `json:"imageUrl,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	DurationMS int    `json:"durationMs,omitempty"`
}

// Result pairs a track with its relevance score for a single query.
// Results are built fresh on every search and never persisted.
type Result struct {
	Track        Track `json:"track"`
	Score        int   `json:"score"`
	IsExactMatch bool  `json:"isExactMatch"`
}

// ScoringConfig holds configurable weights for the scoring algorithm.
// All weights are positive; whole-field weights are large enough that an
// exact match outranks any plausible sum of per-term partial points.
type ScoringConfig struct {
	// Whole-field match weights
	ExactNamePoints   int // default: 120
	ExactArtistPoints int // default: 100
	ExactAlbumPoints  int // default: 80
	ExactGenrePoints  int // default: 60

	// Context bonuses, applied to exact and partial matches alike
	YearMatchPoints  int // default: 30
	GenreAliasPoints int // default: 20

	// Per-term partial match weights
	PartialNamePoints          int // default: 10
	PartialOriginalTitlePoints int // default: 8
	PartialArtistPoints        int // default: 8
	PartialAlbumPoints         int // default: 6
	PartialGenrePoints         int // default: 5
	PartialYearPoints          int // default: 3
	PartialOverviewPoints      int // default: 2

	// Word bonus for longer terms found in the name or artist
	WordBonusPoints    int // default: 5
	MinWordBonusLength int // default: 3

	// Popularity bonuses (thresholds are exclusive, bonuses stack)
	PopularityHighPoints        int // default: 3
	PopularityVeryHighPoints    int // default: 2
	PopularityHighThreshold     int // default: 85
	PopularityVeryHighThreshold int // default: 90
}

// DefaultConfig returns the standard scoring weights.
func DefaultConfig() ScoringConfig {
	return ScoringConfig{
		// Whole-field match weights
		ExactNamePoints:   120,
		ExactArtistPoints: 100,
		ExactAlbumPoints:  80,
		ExactGenrePoints:  60,

		// Context bonuses
		YearMatchPoints:  30,
		GenreAliasPoints: 20,

		// Per-term partial match weights
		PartialNamePoints:          10,
		PartialOriginalTitlePoints: 8,
		PartialArtistPoints:        8,
		PartialAlbumPoints:         6,
		PartialGenrePoints:         5,
		PartialYearPoints:          3,
		PartialOverviewPoints:      2,

		// Word bonus
		WordBonusPoints:    5,
		MinWordBonusLength: 3,

		// Popularity bonuses
		PopularityHighPoints:        3,
		PopularityVeryHighPoints:    2,
		PopularityHighThreshold:     85,
		PopularityVeryHighThreshold: 90,
	}
}
