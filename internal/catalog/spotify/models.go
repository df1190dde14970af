package spotify

// TokenResponse is the client-credentials grant response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// SearchResponse is the /search response envelope.
type SearchResponse struct {
	Tracks TrackPage `json:"tracks"`
}

// TrackPage is one page of track results.
type TrackPage struct {
	Items  []TrackItem `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// TrackItem is a track object from the Spotify Web API.
type TrackItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	PreviewURL string   `json:"preview_url"`
	Popularity int      `json:"popularity"`
	DurationMS int      `json:"duration_ms"`
}

// Artist is a simplified artist object.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is a simplified album object. ReleaseDate may be a bare year,
// a year-month, or a full date depending on release date precision.
type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ReleaseDate string  `json:"release_date"`
	Images      []Image `json:"images"`
}

// Image is an album art reference.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
