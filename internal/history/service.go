// Package history records completed searches and serves them back for
// the recent-activity view.
package history

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Service provides search history management.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new history service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// SetDB swaps the database connection, used when toggling developer mode.
func (s *Service) SetDB(db *sql.DB) {
	s.db = db
}

// Record stores a completed search. Failures are logged and swallowed so
// recording never fails a search response.
func (s *Service) Record(ctx context.Context, query string, resultCount, exactCount int) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_history (query, result_count, exact_count) VALUES (?, ?, ?)`,
		query, resultCount, exactCount,
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("failed to record search")
	}
}

// List lists history entries with pagination, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}

	offset := (opts.Page - 1) * opts.PageSize

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, result_count, exact_count, created_at
		 FROM search_history
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.PageSize, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*Entry, 0, opts.PageSize)
	for rows.Next() {
		var entry Entry
		var createdAt time.Time
		if err := rows.Scan(&entry.ID, &entry.Query, &entry.ResultCount, &entry.ExactCount, &createdAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var totalCount int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_history`).Scan(&totalCount); err != nil {
		return nil, err
	}

	totalPages := int(totalCount) / opts.PageSize
	if int(totalCount)%opts.PageSize > 0 {
		totalPages++
	}

	return &ListResponse{
		Items:      entries,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// Top returns the most repeated queries, most frequent first.
func (s *Service) Top(ctx context.Context, limit int) ([]TopQuery, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT query, COUNT(*) AS search_count, MAX(created_at)
		 FROM search_history
		 GROUP BY query
		 ORDER BY search_count DESC, MAX(created_at) DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := make([]TopQuery, 0, limit)
	for rows.Next() {
		var tq TopQuery
		var lastSearched time.Time
		if err := rows.Scan(&tq.Query, &tq.Count, &lastSearched); err != nil {
			return nil, err
		}
		tq.LastSearched = lastSearched.Format(time.RFC3339)
		top = append(top, tq)
	}
	return top, rows.Err()
}

// DeleteAll deletes all history entries.
func (s *Service) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_history`)
	return err
}

// DeleteOlderThan removes entries created before cutoff and reports how
// many were deleted.
func (s *Service) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM search_history WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
