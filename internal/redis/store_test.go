package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appskottage/AKSalat/internal/db"
	"github.com/appskottage/AKSalat/internal/method"
	"github.com/appskottage/AKSalat/internal/model"
)

type mapCache struct {
	entries    map[int]model.AthanSettings
	devices    map[string]model.AthanSettings
	gets       int
	deviceGets int
	deviceHits int
	fail       bool
}

func newMapCache() *mapCache {
	return &mapCache{
		entries: make(map[int]model.AthanSettings),
		devices: make(map[string]model.AthanSettings),
	}
}

func (c *mapCache) Get(_ context.Context, screenID int) (model.AthanSettings, bool, error) {
	c.gets++
	if c.fail {
		return model.AthanSettings{}, false, errors.New("connection refused")
	}
	s, ok := c.entries[screenID]
	return s, ok, nil
}

func (c *mapCache) GetByDevice(_ context.Context, deviceID string) (model.AthanSettings, bool, error) {
	c.deviceGets++
	if c.fail {
		return model.AthanSettings{}, false, errors.New("connection refused")
	}
	s, ok := c.devices[deviceID]
	if ok {
		c.deviceHits++
	}
	return s, ok, nil
}

func (c *mapCache) Set(_ context.Context, s model.AthanSettings) error {
	if c.fail {
		return errors.New("connection refused")
	}
	c.entries[s.ScreenID] = s
	if s.DeviceID != "" {
		c.devices[s.DeviceID] = s
	}
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, screenID int) error {
	delete(c.entries, screenID)
	return nil
}

func (c *mapCache) InvalidateDevice(_ context.Context, deviceID string) error {
	delete(c.devices, deviceID)
	return nil
}

func TestCachedStoreReadThrough(t *testing.T) {
	mem := db.NewMemoryStore()
	cache := newMapCache()
	store := NewCachedStore(mem, cache)

	_, err := mem.UpsertAthanSettings(model.AthanSettings{ScreenID: 7, DeviceID: "tv-7", Method: method.Kuwait})
	require.NoError(t, err)

	got, err := store.GetAthanSettings(7)
	require.NoError(t, err)
	assert.Equal(t, method.Kuwait, got.Method)
	assert.Contains(t, cache.entries, 7)

	// served from cache even though the backing row changed underneath
	_, err = mem.UpsertAthanSettings(model.AthanSettings{ScreenID: 7, DeviceID: "tv-7", Method: method.Qatar})
	require.NoError(t, err)
	got, err = store.GetAthanSettings(7)
	require.NoError(t, err)
	assert.Equal(t, method.Kuwait, got.Method)
}

func TestCachedStoreDeviceLookupsHitCache(t *testing.T) {
	mem := db.NewMemoryStore()
	cache := newMapCache()
	store := NewCachedStore(mem, cache)

	_, err := mem.UpsertAthanSettings(model.AthanSettings{ScreenID: 5, DeviceID: "tv-5", Method: method.Karachi})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := store.GetAthanSettingsByDevice("tv-5")
		require.NoError(t, err)
		assert.Equal(t, method.Karachi, got.Method)
	}
	assert.Equal(t, 3, cache.deviceGets)
	assert.Equal(t, 2, cache.deviceHits)
	assert.Contains(t, cache.devices, "tv-5")
	assert.Contains(t, cache.entries, 5)

	// the backing row changes, the device entry keeps answering
	_, err = mem.UpsertAthanSettings(model.AthanSettings{ScreenID: 5, DeviceID: "tv-5", Method: method.Shia})
	require.NoError(t, err)
	got, err := store.GetAthanSettingsByDevice("tv-5")
	require.NoError(t, err)
	assert.Equal(t, method.Karachi, got.Method)

	_, err = store.GetAthanSettingsByDevice("tv-missing")
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.NotContains(t, cache.devices, "tv-missing")
}

func TestCachedStoreWritesThroughOnUpsert(t *testing.T) {
	cache := newMapCache()
	store := NewCachedStore(db.NewMemoryStore(), cache)

	_, err := store.UpsertAthanSettings(model.AthanSettings{ScreenID: 1, DeviceID: "tv-1", Method: method.London})
	require.NoError(t, err)
	assert.Equal(t, method.London, cache.entries[1].Method)
	assert.Equal(t, method.London, cache.devices["tv-1"].Method)

	_, err = store.UpsertAthanSettings(model.AthanSettings{ScreenID: 1, DeviceID: "tv-1", Method: method.Tehran})
	require.NoError(t, err)
	assert.Equal(t, method.Tehran, cache.entries[1].Method)
	assert.Equal(t, method.Tehran, cache.devices["tv-1"].Method)

	got, err := store.GetAthanSettingsByDevice("tv-1")
	require.NoError(t, err)
	assert.Equal(t, method.Tehran, got.Method)

	require.NoError(t, store.DeleteAthanSettings(1))
	assert.NotContains(t, cache.entries, 1)
	assert.NotContains(t, cache.devices, "tv-1")
	_, err = store.GetAthanSettings(1)
	assert.ErrorIs(t, err, db.ErrNotFound)
	_, err = store.GetAthanSettingsByDevice("tv-1")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestCachedStoreDropsReplacedDevice(t *testing.T) {
	cache := newMapCache()
	store := NewCachedStore(db.NewMemoryStore(), cache)

	_, err := store.UpsertAthanSettings(model.AthanSettings{ScreenID: 2, DeviceID: "tv-old", Method: method.Qatar})
	require.NoError(t, err)
	_, err = store.GetAthanSettingsByDevice("tv-old")
	require.NoError(t, err)

	_, err = store.UpsertAthanSettings(model.AthanSettings{ScreenID: 2, DeviceID: "tv-new", Method: method.Qatar})
	require.NoError(t, err)
	assert.NotContains(t, cache.devices, "tv-old")
	assert.Contains(t, cache.devices, "tv-new")

	_, err = store.GetAthanSettingsByDevice("tv-old")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestCachedStoreFallsBackWhenCacheFails(t *testing.T) {
	mem := db.NewMemoryStore()
	cache := newMapCache()
	cache.fail = true
	store := NewCachedStore(mem, cache)

	_, err := mem.UpsertAthanSettings(model.AthanSettings{ScreenID: 3, DeviceID: "tv-3", Method: method.UAE})
	require.NoError(t, err)

	got, err := store.GetAthanSettings(3)
	require.NoError(t, err)
	assert.Equal(t, method.UAE, got.Method)

	got, err = store.GetAthanSettingsByDevice("tv-3")
	require.NoError(t, err)
	assert.Equal(t, method.UAE, got.Method)

	_, err = store.UpsertAthanSettings(model.AthanSettings{ScreenID: 3, DeviceID: "tv-3", Method: method.Tunisia})
	require.NoError(t, err)
	got, err = store.GetAthanSettingsByDevice("tv-3")
	require.NoError(t, err)
	assert.Equal(t, method.Tunisia, got.Method)
}

func TestSettingsCacheAgainstRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	InitRedis(addr, os.Getenv("REDIS_USERNAME"), os.Getenv("REDIS_PASSWORD"))
	require.NotNil(t, Rdb)
	ctx := context.Background()
	require.NoError(t, Rdb.Ping(ctx).Err())

	cache := NewSettingsCache(Rdb, time.Minute)
	require.NoError(t, cache.Invalidate(ctx, 99))

	_, ok, err := cache.Get(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, model.AthanSettings{ScreenID: 99, DeviceID: "tv-99", Method: method.UmmAlQura}))
	got, ok, err := cache.Get(ctx, 99)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, method.UmmAlQura, got.Method)
	got, ok, err = cache.GetByDevice(ctx, "tv-99")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 99, got.ScreenID)

	require.NoError(t, cache.InvalidateDevice(ctx, "tv-99"))
	_, ok, err = cache.GetByDevice(ctx, "tv-99")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Rdb.Set(ctx, settingsKey(99), `{"screen_id":99,"method":"Other"}`, time.Minute).Err())
	_, _, err = cache.Get(ctx, 99)
	assert.ErrorIs(t, err, method.ErrUnknownMethod)

	require.NoError(t, cache.Invalidate(ctx, 99))
}
