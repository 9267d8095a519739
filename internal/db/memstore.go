package db

import (
	"sort"
	"sync"
	"time"

	"github.com/appskottage/AKSalat/internal/model"
)

// MemoryStore is an in-process Store used by handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[int]model.AthanSettings
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[int]model.AthanSettings)}
}

func (m *MemoryStore) GetAthanSettings(screenID int) (model.AthanSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[screenID]
	if !ok {
		return model.AthanSettings{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) GetAthanSettingsByDevice(deviceID string) (model.AthanSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.settings {
		if s.DeviceID == deviceID {
			return s, nil
		}
	}
	return model.AthanSettings{}, ErrNotFound
}

func (m *MemoryStore) ListAthanSettings() ([]model.AthanSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.AthanSettings, 0, len(m.settings))
	for _, s := range m.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScreenID < out[j].ScreenID })
	return out, nil
}

func (m *MemoryStore) UpsertAthanSettings(s model.AthanSettings) (model.AthanSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now().UTC()
	m.settings[s.ScreenID] = s
	return s, nil
}

func (m *MemoryStore) DeleteAthanSettings(screenID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.settings[screenID]; !ok {
		return ErrNotFound
	}
	delete(m.settings, screenID)
	return nil
}
