package mock

import "github.com/cadenza/cadenza/internal/search"

// mockTracks is the developer-mode catalog. Regenerate with
// cmd/chartscrape against a saved chart page.
var mockTracks = []search.Track{
	{
		ID:         "mock-0001",
		Name:       "Blinding Lights",
		Artist:     "The Weeknd",
		Album:      "After Hours",
		Genre:      "synth-pop",
		Year:       2020,
		Popularity: 96,
		Overview:   "Pulsing synthwave single that topped charts worldwide.",
		ImageURL:   "https://img.cadenza.local/mock/after-hours.jpg",
		DurationMS: 200040,
	},
	{
		ID:         "mock-0002",
		Name:       "Sicko Mode",
		Artist:     "Travis Scott",
		Album:      "Astroworld",
		Genre:      "hip-hop",
		Year:       2018,
		Popularity: 88,
		Overview:   "Multi-part hip-hop odyssey with shifting beats.",
		DurationMS: 312820,
	},
	{
		ID:         "mock-0003",
		Name:       "God's Plan",
		Artist:     "Drake",
		Album:      "Scorpion",
		Genre:      "hip-hop",
		Year:       2018,
		Popularity: 91,
		DurationMS: 198973,
	},
	{
		ID:         "mock-0004",
		Name:       "Bohemian Rhapsody",
		Artist:     "Queen",
		Album:      "A Night at the Opera",
		Genre:      "classic rock",
		Year:       1975,
		Popularity: 87,
		Overview:   "Six-minute operatic rock suite in three movements.",
		DurationMS: 354320,
	},
	{
		ID:         "mock-0005",
		Name:       "Smells Like Teen Spirit",
		Artist:     "Nirvana",
		Album:      "Nevermind",
		Genre:      "grunge",
		Year:       1991,
		Popularity: 85,
		DurationMS: 301920,
	},
	{
		ID:         "mock-0006",
		Name:       "One Kiss",
		Artist:     "Calvin Harris, Dua Lipa",
		Album:      "One Kiss",
		Genre:      "dance pop",
		Year:       2018,
		Popularity: 84,
		DurationMS: 214800,
	},
	{
		ID:         "mock-0007",
		Name:       "Take Five",
		Artist:     "The Dave Brubeck Quartet",
		Album:      "Time Out",
		Genre:      "jazz",
		Year:       1959,
		Popularity: 71,
		Overview:   "Cool jazz standard in quintuple time.",
		DurationMS: 324000,
	},
	{
		ID:         "mock-0008",
		Name:       "Levitating",
		Artist:     "Dua Lipa",
		Album:      "Future Nostalgia",
		Genre:      "dance pop",
		Year:       2020,
		Popularity: 93,
		DurationMS: 203064,
	},
	{
		ID:         "mock-0009",
		Name:       "Espresso",
		Artist:     "Sabrina Carpenter",
		Album:      "Short n' Sweet",
		Genre:      "pop",
		Year:       2024,
		Popularity: 94,
		DurationMS: 175459,
	},
	{
		ID:         "mock-0010",
		Name:       "Hotel California",
		Artist:     "Eagles",
		Album:      "Hotel California",
		Genre:      "classic rock",
		Year:       1976,
		Popularity: 86,
		DurationMS: 391376,
	},
	{
		ID:            "mock-0011",
		Name:          "Gangnam Style",
		OriginalTitle: "강남스타일",
		Artist:        "PSY",
		Album:         "Psy 6 (Six Rules), Part 1",
		Genre:         "k-pop",
		Year:          2012,
		Popularity:    78,
		DurationMS:    219493,
	},
	{
		ID:         "mock-0012",
		Name:       "One More Time",
		Artist:     "Daft Punk",
		Album:      "Discovery",
		Genre:      "french house",
		Year:       2001,
		Popularity: 83,
		Overview:   "Filtered house anthem built on a looping horn sample.",
		DurationMS: 320357,
	},
	{
		ID:         "mock-0013",
		Name:       "Strobe",
		Artist:     "deadmau5",
		Album:      "For Lack of a Better Name",
		Genre:      "progressive house",
		Year:       2009,
		Popularity: 69,
		DurationMS: 633920,
	},
	{
		ID:         "mock-0014",
		Name:       "Jolene",
		Artist:     "Dolly Parton",
		Album:      "Jolene",
		Genre:      "country",
		Year:       1973,
		Popularity: 80,
		DurationMS: 161907,
	},
	{
		ID:         "mock-0015",
		Name:       "Redemption Song",
		Artist:     "Bob Marley & The Wailers",
		Album:      "Uprising",
		Genre:      "reggae",
		Year:       1980,
		Popularity: 79,
		DurationMS: 227267,
	},
	{
		ID:         "mock-0016",
		Name:       "Clair de Lune",
		Artist:     "Claude Debussy",
		Album:      "Suite bergamasque",
		Genre:      "classical",
		Year:       1905,
		Popularity: 74,
		DurationMS: 300000,
	},
	{
		ID:         "mock-0017",
		Name:       "Despacito",
		Artist:     "Luis Fonsi, Daddy Yankee",
		Album:      "Vida",
		Genre:      "reggaeton",
		Year:       2017,
		Popularity: 89,
		DurationMS: 229360,
	},
	{
		ID:         "mock-0018",
		Name:       "As It Was",
		Artist:     "Harry Styles",
		Album:      "Harry's House",
		Genre:      "pop",
		Year:       2022,
		Popularity: 95,
		DurationMS: 167303,
	},
	{
		ID:         "mock-0019",
		Name:       "Lose Yourself",
		Artist:     "Eminem",
		Album:      "8 Mile",
		Genre:      "rap",
		Year:       2002,
		Popularity: 90,
		Overview:   "Oscar-winning single written for the film 8 Mile.",
		DurationMS: 326466,
	},
	{
		ID:         "mock-0020",
		Name:       "Midnight City",
		Artist:     "M83",
		Album:      "Hurry Up, We're Dreaming",
		Genre:      "synthwave",
		Year:       2011,
		Popularity: 81,
		DurationMS: 244373,
	},
}
