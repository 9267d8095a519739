package redis

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/db"
	"github.com/appskottage/AKSalat/internal/model"
)

// Cache is the part of SettingsCache that CachedStore relies on.
type Cache interface {
	Get(ctx context.Context, screenID int) (model.AthanSettings, bool, error)
	GetByDevice(ctx context.Context, deviceID string) (model.AthanSettings, bool, error)
	Set(ctx context.Context, settings model.AthanSettings) error
	Invalidate(ctx context.Context, screenID int) error
	InvalidateDevice(ctx context.Context, deviceID string) error
}

var _ Cache = (*SettingsCache)(nil)

// CachedStore reads athan settings through the cache, by screen and by
// device, and writes saved settings back into it. The admin list is always
// served by the store. Cache failures are logged and fall back to the store.
//
// A read that loaded a row just before a concurrent upsert can still put the
// older row back; such an entry lives at most one TTL.
type CachedStore struct {
	db.Store
	cache Cache
}

var _ db.Store = (*CachedStore)(nil)

func NewCachedStore(store db.Store, cache Cache) *CachedStore {
	return &CachedStore{Store: store, cache: cache}
}

func (s *CachedStore) GetAthanSettings(screenID int) (model.AthanSettings, error) {
	ctx := context.Background()
	if cached, ok, err := s.cache.Get(ctx, screenID); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("athan settings cache read failed")
	} else if ok {
		return cached, nil
	}

	settings, err := s.Store.GetAthanSettings(screenID)
	if err != nil {
		return settings, err
	}
	s.fill(ctx, settings)
	return settings, nil
}

func (s *CachedStore) GetAthanSettingsByDevice(deviceID string) (model.AthanSettings, error) {
	ctx := context.Background()
	if cached, ok, err := s.cache.GetByDevice(ctx, deviceID); err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("athan settings cache read failed")
	} else if ok {
		return cached, nil
	}

	settings, err := s.Store.GetAthanSettingsByDevice(deviceID)
	if err != nil {
		return settings, err
	}
	s.fill(ctx, settings)
	return settings, nil
}

func (s *CachedStore) UpsertAthanSettings(settings model.AthanSettings) (model.AthanSettings, error) {
	previous, hadPrevious := s.previous(settings.ScreenID)

	saved, err := s.Store.UpsertAthanSettings(settings)
	if err != nil {
		return saved, err
	}

	ctx := context.Background()
	if hadPrevious && previous.DeviceID != "" && previous.DeviceID != saved.DeviceID {
		s.invalidateDevice(ctx, previous.DeviceID)
	}
	if err := s.cache.Set(ctx, saved); err != nil {
		log.Warn().Err(err).Int("screen_id", saved.ScreenID).Msg("athan settings cache write failed")
		s.invalidate(ctx, saved.ScreenID, saved.DeviceID)
	}
	return saved, nil
}

func (s *CachedStore) DeleteAthanSettings(screenID int) error {
	previous, hadPrevious := s.previous(screenID)

	if err := s.Store.DeleteAthanSettings(screenID); err != nil {
		return err
	}

	deviceID := ""
	if hadPrevious {
		deviceID = previous.DeviceID
	}
	s.invalidate(context.Background(), screenID, deviceID)
	return nil
}

// previous loads the stored row, bypassing the cache, so a write can drop
// the device entry it replaces.
func (s *CachedStore) previous(screenID int) (model.AthanSettings, bool) {
	settings, err := s.Store.GetAthanSettings(screenID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Warn().Err(err).Int("screen_id", screenID).Msg("could not load athan settings before write")
		}
		return settings, false
	}
	return settings, true
}

func (s *CachedStore) fill(ctx context.Context, settings model.AthanSettings) {
	if err := s.cache.Set(ctx, settings); err != nil {
		log.Warn().Err(err).Int("screen_id", settings.ScreenID).Msg("athan settings cache write failed")
	}
}

func (s *CachedStore) invalidate(ctx context.Context, screenID int, deviceID string) {
	if err := s.cache.Invalidate(ctx, screenID); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("athan settings cache invalidation failed")
	}
	if deviceID != "" {
		s.invalidateDevice(ctx, deviceID)
	}
}

func (s *CachedStore) invalidateDevice(ctx context.Context, deviceID string) {
	if err := s.cache.InvalidateDevice(ctx, deviceID); err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("athan settings cache invalidation failed")
	}
}
