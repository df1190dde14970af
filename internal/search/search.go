package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// NoLimit disables result truncation in Search.
const NoLimit = -1

// yearPattern matches the first plausible release year in a query.
var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// Scorer ranks catalog tracks against free-text queries.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	config  ScoringConfig
	aliases []GenreAlias
}

// NewScorer creates a scorer with the given weights and genre alias table.
func NewScorer(config ScoringConfig, aliases []GenreAlias) *Scorer {
	return &Scorer{config: config, aliases: aliases}
}

// NewDefaultScorer creates a scorer with default weights and the built-in
// alias table.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultConfig(), DefaultAliases())
}

// Search scores tracks against query and returns the matches ordered by
// relevance: exact matches first, then by score descending. Ties keep
// input order. Tracks that score zero are dropped.
//
// A negative limit (NoLimit) returns all matches, zero returns none, and
// a positive limit truncates the result.
func (s *Scorer) Search(tracks []Track, query string, limit int) []Result {
	results := []Result{}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit == 0 {
		return results
	}

	terms := strings.Fields(q)
	searchYear := yearPattern.FindString(q)

	for i := range tracks {
		score, exact := s.scoreTrack(&tracks[i], q, terms, searchYear)
		if score > 0 {
			results = append(results, Result{Track: tracks[i], Score: score, IsExactMatch: exact})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].IsExactMatch != results[j].IsExactMatch {
			return results[i].IsExactMatch
		}
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

// scoreTrack computes the relevance score for a single track against the
// normalized query. The second return value reports whether the query
// matched a whole field.
func (s *Scorer) scoreTrack(t *Track, q string, terms []string, searchYear string) (int, bool) {
	name := strings.ToLower(t.Name)
	title := strings.ToLower(t.Title)
	originalTitle := strings.ToLower(t.OriginalTitle)
	artist := strings.ToLower(t.Artist)
	album := strings.ToLower(t.Album)
	overview := strings.ToLower(t.Overview)
	genre := strings.ToLower(t.Genre)

	var year string
	if t.Year > 0 {
		year = strconv.Itoa(t.Year)
	}

	var score int
	var exact bool

	// Whole-field matches, strongest field first. Only the first hit
	// counts; later fields are not checked.
	switch {
	case q == name || q == title || q == originalTitle:
		score += s.config.ExactNamePoints
		exact = true
	case q == artist:
		score += s.config.ExactArtistPoints
		exact = true
	case q == album:
		score += s.config.ExactAlbumPoints
		exact = true
	case q == genre:
		score += s.config.ExactGenrePoints
		exact = true
	}

	// Year bonus applies to exact and partial matches alike.
	if searchYear != "" && year == searchYear {
		score += s.config.YearMatchPoints
	}

	// Genre vocabulary bonus: the first canonical key present in the
	// query whose variants appear in the track genre scores once. Keys
	// whose variants all miss do not end the scan.
	for _, ga := range s.aliases {
		if !strings.Contains(q, ga.Genre) {
			continue
		}
		matched := false
		for _, alias := range ga.Aliases {
			if strings.Contains(genre, alias) {
				score += s.config.GenreAliasPoints
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	if exact {
		return score, true
	}

	// Per-term partial matches. A term can score on several fields.
	for _, term := range terms {
		if strings.Contains(name, term) || strings.Contains(title, term) {
			score += s.config.PartialNamePoints
		}
		if strings.Contains(originalTitle, term) {
			score += s.config.PartialOriginalTitlePoints
		}
		if strings.Contains(artist, term) {
			score += s.config.PartialArtistPoints
		}
		if strings.Contains(album, term) {
			score += s.config.PartialAlbumPoints
		}
		if strings.Contains(genre, term) {
			score += s.config.PartialGenrePoints
		}
		if strings.Contains(overview, term) {
			score += s.config.PartialOverviewPoints
		}
		if strings.Contains(year, term) {
			score += s.config.PartialYearPoints
		}
	}

	// Word bonus: longer terms found in the name or artist score again,
	// on top of the per-field points above.
	for _, term := range terms {
		if len(term) >= s.config.MinWordBonusLength &&
			(strings.Contains(name, term) || strings.Contains(artist, term)) {
			score += s.config.WordBonusPoints
		}
	}

	if t.Popularity > s.config.PopularityHighThreshold {
		score += s.config.PopularityHighPoints
	}
	if t.Popularity > s.config.PopularityVeryHighThreshold {
		score += s.config.PopularityVeryHighPoints
	}

	return score, false
}
