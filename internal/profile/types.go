package profile

// Profile is the single listener profile for this server.
type Profile struct {
	DisplayName   string `json:"displayName"`
	FavoriteGenre string `json:"favoriteGenre"`
	Country       string `json:"country"`
	UpdatedAt     string `json:"updatedAt"`
}

// UpdateProfileInput contains fields for updating the profile.
type UpdateProfileInput struct {
	DisplayName   string `json:"displayName"`
	FavoriteGenre string `json:"favoriteGenre"`
	Country       string `json:"country"`
}

// Favorite is a track pinned by the listener.
type Favorite struct {
	ID         string `json:"id"`
	TrackID    string `json:"trackId"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Genre      string `json:"genre"`
	Year       int    `json:"year"`
	ImageURL   string `json:"imageUrl"`
	PreviewURL string `json:"previewUrl"`
	CreatedAt  string `json:"createdAt"`
}

// AddFavoriteInput contains fields for adding a favorite.
type AddFavoriteInput struct {
	TrackID    string `json:"trackId"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Genre      string `json:"genre"`
	Year       int    `json:"year"`
	ImageURL   string `json:"imageUrl"`
	PreviewURL string `json:"previewUrl"`
}
