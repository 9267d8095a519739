// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/appskottage/AKSalat/internal/model"
)

// ErrNotFound is returned when a screen has no athan settings.
var ErrNotFound = errors.New("athan settings not found")

type Store interface {
	GetAthanSettings(screenID int) (model.AthanSettings, error)
	GetAthanSettingsByDevice(deviceID string) (model.AthanSettings, error)
	ListAthanSettings() ([]model.AthanSettings, error)
	UpsertAthanSettings(s model.AthanSettings) (model.AthanSettings, error)
	DeleteAthanSettings(screenID int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
