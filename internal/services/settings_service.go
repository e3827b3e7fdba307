package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/models"
)

// SettingsServiceProvider defines the interface for settings services.
type SettingsServiceProvider interface {
	GetSettings(ctx context.Context, owner auth.Identity) (models.Settings, error)
	SaveSettings(ctx context.Context, owner auth.Identity, in models.SettingsInput, raw json.RawMessage) error
}

// SettingsService stores per-user preferences.
type SettingsService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *sql.DB, events EventServiceProvider) *SettingsService {
	return &SettingsService{db: db, events: events}
}

// GetSettings returns the stored preferences of a user. Anonymous callers and
// users without a stored row get the defaults; anonymous calls never touch
// the database.
func (s *SettingsService) GetSettings(ctx context.Context, owner auth.Identity) (models.Settings, error) {
	userID, ok := owner.UserID()
	if !ok {
		return models.DefaultSettings(), nil
	}

	var settings models.Settings
	var theme, language, timezone, raw sql.NullString
	var notifications sql.NullBool
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, theme, notifications, language, timezone, settings_json
		FROM user_settings WHERE user_id = ?`, userID).
		Scan(&settings.ID, &settings.UserID, &theme, &notifications, &language, &timezone, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, err
	}

	settings.Theme = theme.String
	settings.Notifications = notifications.Bool
	settings.Language = language.String
	settings.Timezone = timezone.String
	if raw.Valid && raw.String != "" {
		settings.RawJSON = json.RawMessage(raw.String)
	}
	return settings, nil
}

// SaveSettings overwrites all four preferences of a user, creating the row on
// first write. Fields missing from in are reset to their defaults. raw is kept
// verbatim alongside.
func (s *SettingsService) SaveSettings(ctx context.Context, owner auth.Identity, in models.SettingsInput, raw json.RawMessage) error {
	userID, ok := owner.UserID()
	if !ok {
		return fmt.Errorf("%w to save settings", ErrRejected)
	}
	settings := in.Resolve()

	var rawValue interface{}
	if len(raw) > 0 {
		rawValue = string(raw)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE user_settings SET theme = ?, notifications = ?, language = ?, timezone = ?, settings_json = ?
		WHERE user_id = ?`,
		settings.Theme, settings.Notifications, settings.Language, settings.Timezone, rawValue, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_settings (user_id, theme, notifications, language, timezone, settings_json)
			VALUES (?, ?, ?, ?, ?, ?)`,
			userID, settings.Theme, settings.Notifications, settings.Language, settings.Timezone, rawValue)
		if err != nil {
			return unknownOwner(owner, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.events.Record(ctx, owner, EventSettingsUpdate, "Settings saved.", nil)
	return nil
}
