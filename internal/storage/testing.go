package storage

import (
	"database/sql"

	"go.uber.org/zap"
)

// NewTestDB wraps an existing connection in a DB for tests in other packages.
// The connection must already carry the schema.
func NewTestDB(sqlDB *sql.DB) *DB {
	return &DB{conn: sqlDB, path: MemoryPath, logger: zap.NewNop()}
}
