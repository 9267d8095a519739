package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/appskottage/AKSalat/internal/model"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// SettingsCache keeps athan settings as JSON, once under the screen id and
// once under the device id the screen is paired with.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	return &SettingsCache{client: client, ttl: ttl}
}

func settingsKey(screenID int) string {
	return fmt.Sprintf("athan:settings:%d", screenID)
}

func deviceKey(deviceID string) string {
	return "athan:device:" + deviceID
}

// Get returns the cached settings and whether they were present.
func (c *SettingsCache) Get(ctx context.Context, screenID int) (model.AthanSettings, bool, error) {
	return c.get(ctx, settingsKey(screenID))
}

// GetByDevice is Get keyed by the device id.
func (c *SettingsCache) GetByDevice(ctx context.Context, deviceID string) (model.AthanSettings, bool, error) {
	return c.get(ctx, deviceKey(deviceID))
}

func (c *SettingsCache) get(ctx context.Context, key string) (model.AthanSettings, bool, error) {
	var settings model.AthanSettings
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return settings, false, nil
	}
	if err != nil {
		return settings, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	// entries written before a method was renamed fail here with ErrUnknownMethod
	if err := json.Unmarshal(raw, &settings); err != nil {
		return settings, false, fmt.Errorf("decode cached settings: %w", err)
	}
	return settings, true, nil
}

// Set writes both the screen and the device entry in one transaction.
func (c *SettingsCache) Set(ctx context.Context, settings model.AthanSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, settingsKey(settings.ScreenID), raw, c.ttl)
		if settings.DeviceID != "" {
			pipe.Set(ctx, deviceKey(settings.DeviceID), raw, c.ttl)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("screen_id", settings.ScreenID).Msg("failed to add settings to redis")
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *SettingsCache) Invalidate(ctx context.Context, screenID int) error {
	return c.client.Del(ctx, settingsKey(screenID)).Err()
}

func (c *SettingsCache) InvalidateDevice(ctx context.Context, deviceID string) error {
	return c.client.Del(ctx, deviceKey(deviceID)).Err()
}
