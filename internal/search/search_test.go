package search

import (
	"reflect"
	"testing"
)

func TestSearch_EmptyQuery(t *testing.T) {
	scorer := NewDefaultScorer()
	tracks := []Track{
		{ID: "1", Name: "Blinding Lights", Artist: "The Weeknd"},
		{ID: "2", Name: "Levitating", Artist: "Dua Lipa"},
	}

	tests := []struct {
		name  string
		query string
	}{
		{name: "empty string", query: ""},
		{name: "spaces only", query: "   "},
		{name: "mixed whitespace", query: " \t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := scorer.Search(tracks, tt.query, NoLimit)
			if len(results) != 0 {
				t.Errorf("Expected no results for %q, got %d", tt.query, len(results))
			}
		})
	}
}

func TestSearch_ExactMatch(t *testing.T) {
	scorer := NewDefaultScorer()
	cfg := DefaultConfig()

	tests := []struct {
		name      string
		query     string
		track     Track
		wantScore int
	}{
		{
			name:      "query equals name",
			query:     "Blinding Lights",
			track:     Track{ID: "1", Name: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours"},
			wantScore: cfg.ExactNamePoints,
		},
		{
			name:      "query equals title",
			query:     "blinding lights",
			track:     Track{ID: "1", Name: "Blinding Lights (Remix)", Title: "Blinding Lights", Artist: "The Weeknd"},
			wantScore: cfg.ExactNamePoints,
		},
		{
			name:      "query equals original title",
			query:     "blinding lights",
			track:     Track{ID: "1", Name: "Blinded", OriginalTitle: "Blinding Lights", Artist: "The Weeknd"},
			wantScore: cfg.ExactNamePoints,
		},
		{
			name:      "query equals artist",
			query:     "The Weeknd",
			track:     Track{ID: "1", Name: "Save Your Tears", Artist: "The Weeknd"},
			wantScore: cfg.ExactArtistPoints,
		},
		{
			name:      "query equals album",
			query:     "after hours",
			track:     Track{ID: "1", Name: "Save Your Tears", Artist: "The Weeknd", Album: "After Hours"},
			wantScore: cfg.ExactAlbumPoints,
		},
		{
			name:      "query equals genre",
			query:     "Shoegaze",
			track:     Track{ID: "1", Name: "Sometimes", Artist: "My Bloody Valentine", Genre: "shoegaze"},
			wantScore: cfg.ExactGenrePoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := scorer.Search([]Track{tt.track}, tt.query, NoLimit)

			if len(results) != 1 {
				t.Fatalf("Expected 1 result, got %d", len(results))
			}
			if results[0].Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", results[0].Score, tt.wantScore)
			}
			if !results[0].IsExactMatch {
				t.Error("Expected exact match flag to be set")
			}
		})
	}
}

func TestSearch_ExactMatchUsesStrongestField(t *testing.T) {
	scorer := NewDefaultScorer()
	cfg := DefaultConfig()

	tests := []struct {
		name      string
		query     string
		track     Track
		wantScore int
	}{
		{
			name:      "name wins over artist",
			query:     "bad habits",
			track:     Track{ID: "1", Name: "Bad Habits", Artist: "Bad Habits"},
			wantScore: cfg.ExactNamePoints,
		},
		{
			name:      "artist wins over album",
			query:     "nirvana",
			track:     Track{ID: "1", Name: "Something Else", Artist: "Nirvana", Album: "Nirvana"},
			wantScore: cfg.ExactArtistPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := scorer.Search([]Track{tt.track}, tt.query, NoLimit)

			if len(results) != 1 {
				t.Fatalf("Expected 1 result, got %d", len(results))
			}
			if results[0].Score != tt.wantScore {
				t.Errorf("Score = %d, want %d (only the strongest field should count)", results[0].Score, tt.wantScore)
			}
		})
	}
}

func TestSearch_YearBonus(t *testing.T) {
	scorer := NewDefaultScorer()
	cfg := DefaultConfig()

	t.Run("year query matches only same-year track", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "Espresso", Artist: "Sabrina Carpenter", Year: 2024},
			{ID: "2", Name: "Flowers", Artist: "Miley Cyrus", Year: 2023},
		}

		results := scorer.Search(tracks, "2024", NoLimit)

		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		if results[0].Track.ID != "1" {
			t.Errorf("Expected track 1, got %s", results[0].Track.ID)
		}
		want := cfg.YearMatchPoints + cfg.PartialYearPoints
		if results[0].Score != want {
			t.Errorf("Score = %d, want %d", results[0].Score, want)
		}
		if results[0].IsExactMatch {
			t.Error("Year match should not set the exact flag")
		}
	})

	t.Run("year bonus stacks on exact match", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "1999", Artist: "Prince", Year: 1999},
		}

		results := scorer.Search(tracks, "1999", NoLimit)

		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		want := cfg.ExactNamePoints + cfg.YearMatchPoints
		if results[0].Score != want {
			t.Errorf("Score = %d, want %d", results[0].Score, want)
		}
		if !results[0].IsExactMatch {
			t.Error("Expected exact match flag to be set")
		}
	})

	t.Run("first year token in query wins", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "Party Over Here", Artist: "Unknown", Year: 1999},
			{ID: "2", Name: "Space Odyssey", Artist: "Unknown", Year: 2001},
		}

		results := scorer.Search(tracks, "1999 2001", NoLimit)

		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		// Only the 1999 track gets the year bonus; both keep their
		// partial year points.
		if results[0].Track.ID != "1" {
			t.Errorf("Expected 1999 track first, got %s", results[0].Track.ID)
		}
		if want := cfg.YearMatchPoints + cfg.PartialYearPoints; results[0].Score != want {
			t.Errorf("1999 track score = %d, want %d", results[0].Score, want)
		}
		if want := cfg.PartialYearPoints; results[1].Score != want {
			t.Errorf("2001 track score = %d, want %d", results[1].Score, want)
		}
	})
}

func TestSearch_GenreAliases(t *testing.T) {
	scorer := NewDefaultScorer()
	cfg := DefaultConfig()

	t.Run("space variant matches hyphenated genre", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "Sicko Mode", Artist: "Travis Scott", Genre: "hip-hop"},
		}

		results := scorer.Search(tracks, "hip hop", NoLimit)

		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		// Both terms hit the genre as substrings, plus the alias bonus.
		want := cfg.GenreAliasPoints + 2*cfg.PartialGenrePoints
		if results[0].Score != want {
			t.Errorf("Score = %d, want %d", results[0].Score, want)
		}
		if results[0].IsExactMatch {
			t.Error("Alias match should not set the exact flag")
		}
	})

	t.Run("alias bonus stacks on exact genre match", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "Take Five", Artist: "Dave Brubeck", Genre: "jazz"},
		}

		results := scorer.Search(tracks, "jazz", NoLimit)

		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		want := cfg.ExactGenrePoints + cfg.GenreAliasPoints
		if results[0].Score != want {
			t.Errorf("Score = %d, want %d", results[0].Score, want)
		}
	})

	t.Run("scan continues past keys whose variants miss", func(t *testing.T) {
		// "rap" is in the query but none of its variants appear in the
		// genre, so the scan must move on and land on "rock".
		tracks := []Track{
			{ID: "1", Name: "Given Up", Artist: "Linkin Park", Genre: "hard rock"},
		}

		results := scorer.Search(tracks, "rap rock", NoLimit)

		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		want := cfg.GenreAliasPoints + cfg.PartialGenrePoints
		if results[0].Score != want {
			t.Errorf("Score = %d, want %d", results[0].Score, want)
		}
	})

	t.Run("no bonus when genre is unrelated", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "Nocturne", Artist: "Chopin", Genre: "classical"},
		}

		results := scorer.Search(tracks, "hip hop", NoLimit)

		if len(results) != 0 {
			t.Errorf("Expected no results, got %d", len(results))
		}
	})
}

func TestSearch_PartialScoring(t *testing.T) {
	scorer := NewDefaultScorer()
	cfg := DefaultConfig()

	track := Track{
		ID:            "1",
		Name:          "Midnight City",
		OriginalTitle: "Minuit en Ville",
		Artist:        "M83",
		Album:         "Hurry Up, We're Dreaming",
		Overview:      "Synth anthem about city lights after midnight.",
		Genre:         "synthwave",
		Year:          2011,
		Popularity:    80,
	}

	tests := []struct {
		name      string
		query     string
		wantScore int
	}{
		{
			name:  "term hits name and overview",
			query: "midnight drive",
			// "midnight" in name and overview, plus the word bonus.
			wantScore: cfg.PartialNamePoints + cfg.PartialOverviewPoints + cfg.WordBonusPoints,
		},
		{
			name:  "terms hit artist and album",
			query: "m83 dreaming",
			// "m83" in artist (with word bonus), "dreaming" in album.
			wantScore: cfg.PartialArtistPoints + cfg.PartialAlbumPoints + cfg.WordBonusPoints,
		},
		{
			name:      "term hits original title only",
			query:     "minuit",
			wantScore: cfg.PartialOriginalTitlePoints,
		},
		{
			name:  "genre term with year",
			query: "synthwave 2011",
			// Genre substring, year substring, and the year bonus.
			wantScore: cfg.PartialGenrePoints + cfg.PartialYearPoints + cfg.YearMatchPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := scorer.Search([]Track{track}, tt.query, NoLimit)

			if len(results) != 1 {
				t.Fatalf("Expected 1 result for %q, got %d", tt.query, len(results))
			}
			if results[0].Score != tt.wantScore {
				t.Errorf("Score for %q = %d, want %d", tt.query, results[0].Score, tt.wantScore)
			}
			if results[0].IsExactMatch {
				t.Errorf("Partial match for %q should not set the exact flag", tt.query)
			}
		})
	}
}

func TestSearch_WordBonus(t *testing.T) {
	scorer := NewDefaultScorer()
	cfg := DefaultConfig()

	track := Track{ID: "1", Name: "Blinding Lights", Artist: "The Weeknd"}

	tests := []struct {
		name      string
		query     string
		wantScore int
	}{
		{
			name:      "long term in name scores twice",
			query:     "light",
			wantScore: cfg.PartialNamePoints + cfg.WordBonusPoints,
		},
		{
			name:      "short term gets no bonus",
			query:     "we",
			wantScore: cfg.PartialArtistPoints,
		},
		{
			name:      "three letter term in artist qualifies",
			query:     "eek",
			wantScore: cfg.PartialArtistPoints + cfg.WordBonusPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := scorer.Search([]Track{track}, tt.query, NoLimit)

			if len(results) != 1 {
				t.Fatalf("Expected 1 result for %q, got %d", tt.query, len(results))
			}
			if results[0].Score != tt.wantScore {
				t.Errorf("Score for %q = %d, want %d", tt.query, results[0].Score, tt.wantScore)
			}
		})
	}
}

func TestSearch_PopularityBonus(t *testing.T) {
	scorer := NewDefaultScorer()
	cfg := DefaultConfig()

	// Two terms hitting the name, no other signals.
	base := 2 * cfg.PartialNamePoints

	tests := []struct {
		name       string
		popularity int
		wantScore  int
	}{
		{name: "low popularity", popularity: 40, wantScore: base},
		{name: "at high threshold", popularity: 85, wantScore: base},
		{name: "above high threshold", popularity: 86, wantScore: base + cfg.PopularityHighPoints},
		{name: "at very high threshold", popularity: 90, wantScore: base + cfg.PopularityHighPoints},
		{name: "above very high threshold", popularity: 91, wantScore: base + cfg.PopularityHighPoints + cfg.PopularityVeryHighPoints},
		{name: "chart topper", popularity: 95, wantScore: base + cfg.PopularityHighPoints + cfg.PopularityVeryHighPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := Track{ID: "1", Name: "As It Was", Artist: "Harry Styles", Popularity: tt.popularity}

			results := scorer.Search([]Track{track}, "as it", NoLimit)

			if len(results) != 1 {
				t.Fatalf("Expected 1 result, got %d", len(results))
			}
			if results[0].Score != tt.wantScore {
				t.Errorf("Score at popularity %d = %d, want %d", tt.popularity, results[0].Score, tt.wantScore)
			}
		})
	}

	t.Run("popular track sorts above identical unpopular one", func(t *testing.T) {
		tracks := []Track{
			{ID: "cold", Name: "As It Was", Artist: "Harry Styles", Popularity: 40},
			{ID: "hot", Name: "As It Was", Artist: "Harry Styles", Popularity: 95},
		}

		results := scorer.Search(tracks, "as it", NoLimit)

		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		if results[0].Track.ID != "hot" {
			t.Errorf("Expected popular track first, got %s", results[0].Track.ID)
		}
	})

	t.Run("no popularity bonus on exact matches", func(t *testing.T) {
		track := Track{ID: "1", Name: "As It Was", Artist: "Harry Styles", Popularity: 95}

		results := scorer.Search([]Track{track}, "as it was", NoLimit)

		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		if results[0].Score != cfg.ExactNamePoints {
			t.Errorf("Score = %d, want %d", results[0].Score, cfg.ExactNamePoints)
		}
	})
}

func TestSearch_ExactBeforePartial(t *testing.T) {
	scorer := NewDefaultScorer()

	// The partial track is stuffed with term hits so its raw score
	// exceeds the exact one; it must still sort second.
	query := "the quick brown fox jumps"
	tracks := []Track{
		{
			ID:         "partial",
			Name:       "Quick Brown Fox Jumps Over Wall",
			Artist:     "The Quick Brown Fox Jumps Band",
			Album:      "The Quick Brown Fox Jumps Again",
			Overview:   "The quick brown fox jumps.",
			Popularity: 95,
		},
		{
			ID:     "exact",
			Name:   "The Quick Brown Fox Jumps",
			Artist: "Aesop",
		},
	}

	results := scorer.Search(tracks, query, NoLimit)

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Track.ID != "exact" {
		t.Errorf("Expected exact match first, got %s", results[0].Track.ID)
	}
	if !results[0].IsExactMatch || results[1].IsExactMatch {
		t.Errorf("Exact flags wrong: got [%v, %v]", results[0].IsExactMatch, results[1].IsExactMatch)
	}
	if results[1].Score <= results[0].Score {
		t.Fatalf("Test fixture broken: partial score %d should exceed exact score %d", results[1].Score, results[0].Score)
	}
}

func TestSearch_ResultsSortedByScore(t *testing.T) {
	scorer := NewDefaultScorer()

	tracks := []Track{
		{ID: "1", Name: "Lovely Day", Artist: "Bill Withers"},
		{ID: "2", Name: "Love Story", Artist: "Taylor Swift", Popularity: 95},
		{ID: "3", Name: "Crazy in Love", Artist: "Beyonce", Popularity: 88},
		{ID: "4", Name: "Zebra", Artist: "Beach House"},
	}

	results := scorer.Search(tracks, "love", NoLimit)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Score <= 0 {
			t.Errorf("Result %d has non-positive score %d", i, r.Score)
		}
	}
	for i := 0; i < len(results)-1; i++ {
		if results[i].Score < results[i+1].Score {
			t.Errorf("Results not sorted: score[%d]=%d < score[%d]=%d",
				i, results[i].Score, i+1, results[i+1].Score)
		}
	}
}

func TestSearch_Limit(t *testing.T) {
	scorer := NewDefaultScorer()

	tracks := []Track{
		{ID: "1", Name: "Love", Artist: "Lana Del Rey"},
		{ID: "2", Name: "Love Story", Artist: "Taylor Swift", Popularity: 95},
		{ID: "3", Name: "Crazy in Love", Artist: "Beyonce", Popularity: 88},
		{ID: "4", Name: "Lovely Day", Artist: "Bill Withers"},
		{ID: "5", Name: "What Is Love", Artist: "Haddaway"},
	}

	full := scorer.Search(tracks, "love", NoLimit)
	if len(full) != 5 {
		t.Fatalf("Expected 5 results without limit, got %d", len(full))
	}

	tests := []struct {
		name    string
		limit   int
		wantLen int
	}{
		{name: "zero limit returns nothing", limit: 0, wantLen: 0},
		{name: "limit smaller than matches", limit: 2, wantLen: 2},
		{name: "limit equal to matches", limit: 5, wantLen: 5},
		{name: "limit larger than matches", limit: 50, wantLen: 5},
		{name: "negative limit returns all", limit: -7, wantLen: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := scorer.Search(tracks, "love", tt.limit)

			if len(results) != tt.wantLen {
				t.Fatalf("Expected %d results with limit %d, got %d", tt.wantLen, tt.limit, len(results))
			}
			// A limited result is always a prefix of the full one.
			if !reflect.DeepEqual(results, full[:len(results)]) {
				t.Errorf("Limited results are not a prefix of the full results")
			}
		})
	}
}

func TestSearch_Idempotent(t *testing.T) {
	scorer := NewDefaultScorer()

	tracks := []Track{
		{ID: "1", Name: "Love Story", Artist: "Taylor Swift", Popularity: 95},
		{ID: "2", Name: "Crazy in Love", Artist: "Beyonce", Popularity: 88},
		{ID: "3", Name: "Lovely Day", Artist: "Bill Withers"},
	}

	first := scorer.Search(tracks, "love", NoLimit)
	second := scorer.Search(tracks, "love", NoLimit)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Repeated search returned different results:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSearch_AbsentFields(t *testing.T) {
	scorer := NewDefaultScorer()
	cfg := DefaultConfig()

	t.Run("zero year never matches a digit query", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "Void", Artist: "Null Set"},
		}

		results := scorer.Search(tracks, "0", NoLimit)

		if len(results) != 0 {
			t.Errorf("Expected no results, got %d", len(results))
		}
	})

	t.Run("track with only a name is still searchable", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "Solitude"},
		}

		results := scorer.Search(tracks, "solitude", NoLimit)

		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		if results[0].Score != cfg.ExactNamePoints {
			t.Errorf("Score = %d, want %d", results[0].Score, cfg.ExactNamePoints)
		}
	})

	t.Run("year query skips tracks without a year", func(t *testing.T) {
		tracks := []Track{
			{ID: "1", Name: "Timeless", Artist: "Nobody"},
		}

		results := scorer.Search(tracks, "2005", NoLimit)

		if len(results) != 0 {
			t.Errorf("Expected no results, got %d", len(results))
		}
	})
}

func TestSearch_CustomConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PartialNamePoints = 42
	cfg.WordBonusPoints = 0

	scorer := NewScorer(cfg, DefaultAliases())

	results := scorer.Search([]Track{{ID: "1", Name: "Blinding Lights"}}, "light", NoLimit)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Score != 42 {
		t.Errorf("Score = %d, want 42", results[0].Score)
	}
}
