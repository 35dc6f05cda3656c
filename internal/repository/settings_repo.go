package repository

import (
	"vocabquest/internal/database"
	"vocabquest/internal/models"
)

const darkModeSetting = "dark_mode"

// SettingsRepository handles persisted user preferences
type SettingsRepository struct {
	db database.DBTX
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by name
func (r *SettingsRepository) GetSetting(name string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE name = ?`
	err := r.db.QueryRow(query, name).Scan(&value)
	return value, err
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(name, value string) error {
	query := r.db.GetDialect().UpsertSetting()
	_, err := r.db.Exec(query, name, value)
	return err
}

// DarkMode reports whether the dark-mode preference is on.
// A missing or unreadable setting defaults to off.
func (r *SettingsRepository) DarkMode() bool {
	value, err := r.GetSetting(darkModeSetting)
	if err != nil {
		return false
	}
	return value == "true"
}

// SetDarkMode stores the dark-mode preference
func (r *SettingsRepository) SetDarkMode(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return r.SetSetting(darkModeSetting, value)
}

// AllSettings retrieves every stored setting ordered by name
func (r *SettingsRepository) AllSettings() ([]models.Setting, error) {
	rows, err := r.db.Query(`SELECT name, value, updated_at FROM settings ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Name, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// DeleteAll removes every stored setting
func (r *SettingsRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM settings`)
	return err
}
