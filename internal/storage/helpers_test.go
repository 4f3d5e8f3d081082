package storage

import (
	"testing"
)

// setupTestService creates a service over a migrated in-memory database.
func setupTestService(t *testing.T) *Service {
	t.Helper()

	config := DefaultConfig(MemoryPath)
	config.AutoMigrate = true
	db, err := Open(config)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewService(db, nil)
}
