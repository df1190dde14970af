// Package profile manages the listener profile and favorite tracks.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrFavoriteExists   = errors.New("track is already a favorite")
	ErrNameRequired     = errors.New("favorite name is required")
	ErrArtistRequired   = errors.New("favorite artist is required")
)

// Service provides profile and favorites operations.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new profile service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "profile").Logger(),
	}
}

// SetDB swaps the database connection, used when toggling developer mode.
func (s *Service) SetDB(db *sql.DB) {
	s.db = db
}

// GetProfile returns the listener profile. A profile that was never
// saved comes back with empty fields.
func (s *Service) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT display_name, favorite_genre, country, updated_at FROM profile WHERE id = 1`,
	).Scan(&p.DisplayName, &p.FavoriteGenre, &p.Country, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &p, nil
}

// UpdateProfile saves the listener profile and returns the stored state.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*Profile, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profile (id, display_name, favorite_genre, country, updated_at)
		 VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET
		   display_name = excluded.display_name,
		   favorite_genre = excluded.favorite_genre,
		   country = excluded.country,
		   updated_at = CURRENT_TIMESTAMP`,
		strings.TrimSpace(input.DisplayName),
		strings.TrimSpace(input.FavoriteGenre),
		strings.TrimSpace(input.Country),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info().Str("displayName", input.DisplayName).Msg("Updated listener profile")

	return s.GetProfile(ctx)
}

// ListFavorites returns all favorites, newest first.
func (s *Service) ListFavorites(ctx context.Context) ([]*Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, track_id, name, artist, album, genre, year, image_url, preview_url, created_at
		 FROM favorites
		 ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []*Favorite{}
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// GetFavorite retrieves a favorite by ID.
func (s *Service) GetFavorite(ctx context.Context, id string) (*Favorite, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, track_id, name, artist, album, genre, year, image_url, preview_url, created_at
		 FROM favorites WHERE id = ?`, id,
	)
	fav, err := scanFavorite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFavoriteNotFound
		}
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return fav, nil
}

// AddFavorite pins a track. The same name and artist pair can only be
// pinned once.
func (s *Service) AddFavorite(ctx context.Context, input AddFavoriteInput) (*Favorite, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Artist = strings.TrimSpace(input.Artist)
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Artist == "" {
		return nil, ErrArtistRequired
	}

	// Check for an existing pin first
	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM favorites WHERE name = ? AND artist = ?`,
		input.Name, input.Artist,
	).Scan(&existing)
	if err == nil {
		return nil, ErrFavoriteExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing favorite: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favorites (id, track_id, name, artist, album, genre, year, image_url, preview_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.TrackID, input.Name, input.Artist, input.Album,
		input.Genre, input.Year, input.ImageURL, input.PreviewURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.logger.Info().
		Str("id", id).
		Str("name", input.Name).
		Str("artist", input.Artist).
		Msg("Added favorite")

	return s.GetFavorite(ctx, id)
}

// RemoveFavorite unpins a track by ID.
func (s *Service) RemoveFavorite(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return ErrFavoriteNotFound
	}

	s.logger.Info().Str("id", id).Msg("Removed favorite")
	return nil
}

// scanner abstracts sql.Row and sql.Rows for favorite scanning.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFavorite(row scanner) (*Favorite, error) {
	var fav Favorite
	var createdAt time.Time
	err := row.Scan(
		&fav.ID, &fav.TrackID, &fav.Name, &fav.Artist, &fav.Album,
		&fav.Genre, &fav.Year, &fav.ImageURL, &fav.PreviewURL, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	fav.CreatedAt = createdAt.Format(time.RFC3339)
	return &fav, nil
}
