package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/model"
)

const athanColumns = `screen_id, device_id, city, latitude, longitude, method, updated_at`

func (s *pgStore) GetAthanSettings(screenID int) (model.AthanSettings, error) {
	var settings model.AthanSettings
	err := s.db.Get(&settings, `
		SELECT `+athanColumns+`
		FROM athan_settings
		WHERE screen_id = $1
		`, screenID)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("failed to get athan settings")
		return settings, fmt.Errorf("get athan settings for screen %d: %w", screenID, err)
	}
	return settings, nil
}

func (s *pgStore) GetAthanSettingsByDevice(deviceID string) (model.AthanSettings, error) {
	var settings model.AthanSettings
	err := s.db.Get(&settings, `
		SELECT `+athanColumns+`
		FROM athan_settings
		WHERE device_id = $1
		`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("failed to get athan settings by device id")
		return settings, fmt.Errorf("get athan settings for device %q: %w", deviceID, err)
	}
	return settings, nil
}

func (s *pgStore) ListAthanSettings() ([]model.AthanSettings, error) {
	var all []model.AthanSettings
	if err := s.db.Select(&all, `
		SELECT `+athanColumns+`
		FROM athan_settings
		ORDER BY screen_id
		`); err != nil {
		log.Error().Err(err).Msg("failed to list athan settings")
		return nil, fmt.Errorf("list athan settings: %w", err)
	}
	return all, nil
}

func (s *pgStore) UpsertAthanSettings(settings model.AthanSettings) (model.AthanSettings, error) {
	var saved model.AthanSettings
	q := `
	INSERT INTO athan_settings (screen_id, device_id, city, latitude, longitude, method, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (screen_id) DO UPDATE
	SET device_id = EXCLUDED.device_id,
	city = EXCLUDED.city,
	latitude = EXCLUDED.latitude,
	longitude = EXCLUDED.longitude,
	method = EXCLUDED.method,
	updated_at = now()
	RETURNING ` + athanColumns + `;`
	if err := s.db.Get(&saved, q,
		settings.ScreenID,
		settings.DeviceID,
		settings.City,
		settings.Latitude,
		settings.Longitude,
		settings.Method,
	); err != nil {
		log.Error().Err(err).Int("screen_id", settings.ScreenID).Msg("failed to save athan settings")
		return model.AthanSettings{}, fmt.Errorf("save athan settings for screen %d: %w", settings.ScreenID, err)
	}
	return saved, nil
}

func (s *pgStore) DeleteAthanSettings(screenID int) error {
	res, err := s.db.Exec(`DELETE FROM athan_settings WHERE screen_id = $1`, screenID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("failed to delete athan settings")
		return fmt.Errorf("delete athan settings for screen %d: %w", screenID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
