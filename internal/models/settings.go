package models

import "encoding/json"

// Settings holds a user's preferences.
type Settings struct {
	ID            int64           `json:"-"`
	UserID        int64           `json:"-"`
	Theme         string          `json:"theme"`
	Notifications bool            `json:"notifications"`
	Language      string          `json:"language"`
	Timezone      string          `json:"timezone"`
	RawJSON       json.RawMessage `json:"-"`
}

// DefaultSettings returns the preferences served to anonymous callers and to
// users who never saved their own.
func DefaultSettings() Settings {
	return Settings{
		Theme:         "dark",
		Notifications: true,
		Language:      "pt-BR",
		Timezone:      "America/Sao_Paulo",
	}
}

// SettingsInput is a settings write. Omitted fields fall back to the defaults.
type SettingsInput struct {
	Theme         *string `json:"theme"`
	Notifications *bool   `json:"notifications"`
	Language      *string `json:"language"`
	Timezone      *string `json:"timezone"`
}

// Resolve overlays the supplied fields on the defaults.
func (in SettingsInput) Resolve() Settings {
	s := DefaultSettings()
	if in.Theme != nil {
		s.Theme = *in.Theme
	}
	if in.Notifications != nil {
		s.Notifications = *in.Notifications
	}
	if in.Language != nil {
		s.Language = *in.Language
	}
	if in.Timezone != nil {
		s.Timezone = *in.Timezone
	}
	return s
}
