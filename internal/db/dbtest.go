package db

import (
	"context"
	"errors"
	"os"
)

var TestStore Store

// InitTestDB connects to TEST_DATABASE_URL and applies migrations.
func InitTestDB(migrationsPath string) error {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		return errors.New("TEST_DATABASE_URL environment variable is not set")
	}

	if err := Init(context.Background(), dbURL); err != nil {
		return err
	}

	if err := RunMigrations(context.Background(), migrationsPath); err != nil {
		return err
	}

	TestStore = NewStore(DB)
	return nil
}
