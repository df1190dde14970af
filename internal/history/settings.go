package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const settingsKey = "history_retention"

// RetentionSettings contains history retention configuration.
type RetentionSettings struct {
	Enabled       bool `json:"enabled"`
	RetentionDays int  `json:"retentionDays"`
}

// DefaultRetentionSettings returns default retention settings.
func DefaultRetentionSettings() RetentionSettings {
	return RetentionSettings{
		Enabled:       true,
		RetentionDays: 30,
	}
}

// GetRetentionSettings loads retention settings from the database.
func (s *Service) GetRetentionSettings(ctx context.Context) (RetentionSettings, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DefaultRetentionSettings(), nil
		}
		return RetentionSettings{}, err
	}

	var settings RetentionSettings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return DefaultRetentionSettings(), nil //nolint:nilerr // Invalid JSON, use defaults
	}
	return settings, nil
}

// SaveRetentionSettings saves retention settings to the database.
func (s *Service) SaveRetentionSettings(ctx context.Context, settings RetentionSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		settingsKey, string(data),
	)
	return err
}

// CleanupOldEntries deletes history entries older than the configured
// retention period and reports how many were removed.
func (s *Service) CleanupOldEntries(ctx context.Context) (int64, error) {
	settings, err := s.GetRetentionSettings(ctx)
	if err != nil {
		return 0, err
	}

	if !settings.Enabled || settings.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -settings.RetentionDays)
	return s.DeleteOlderThan(ctx, cutoff)
}
