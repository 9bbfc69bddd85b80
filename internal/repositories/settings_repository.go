package repositories

import (
	"database/sql"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type SettingsRepository struct {
	DB *sql.DB
}

func (r SettingsRepository) db() *sql.DB { return fallbackDB(r.DB) }

const settingColumns = `id, setting_key, setting_value, data_type, COALESCE(description,''), updated_at`

func scanSetting(row rowScanner) (models.Setting, error) {
	var s models.Setting
	err := row.Scan(&s.ID, &s.Key, &s.Value, &s.DataType, &s.Description, &s.UpdatedAt)
	return s, err
}

func (r SettingsRepository) Get(key string) (models.Setting, error) {
	row := r.db().QueryRow(`SELECT `+settingColumns+` FROM settings WHERE setting_key=? LIMIT 1`, key)
	s, err := scanSetting(row)
	if err == sql.ErrNoRows {
		return models.Setting{}, domain.NotFoundError{Resource: "setting"}
	}
	return s, err
}

// Set upserts a setting by key.
func (r SettingsRepository) Set(key, value, dataType, description string) error {
	_, err := r.db().Exec(`
		INSERT INTO settings (setting_key, setting_value, data_type, description, updated_at)
		VALUES (?,?,?,?,NOW())
		ON DUPLICATE KEY UPDATE setting_value=VALUES(setting_value),
		                        data_type=VALUES(data_type),
		                        description=VALUES(description),
		                        updated_at=NOW()`,
		key, value, dataType, nullIfEmpty(description))
	return err
}

func (r SettingsRepository) List() ([]models.Setting, error) {
	rows, err := r.db().Query(`SELECT ` + settingColumns + ` FROM settings ORDER BY setting_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r SettingsRepository) Delete(key string) error {
	res, err := r.db().Exec(`DELETE FROM settings WHERE setting_key=?`, key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "setting"}
	}
	return nil
}
