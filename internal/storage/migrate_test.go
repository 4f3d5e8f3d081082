package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationManager_UpDownVersion(t *testing.T) {
	db, err := Open(DefaultConfig(MemoryPath))
	require.NoError(t, err)
	defer db.Close()

	mgr, err := NewMigrationManager(db.Conn())
	require.NoError(t, err)
	defer mgr.Close()

	version, dirty, err := mgr.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, mgr.Up())
	require.NoError(t, mgr.Up(), "second Up is a no-op")

	version, dirty, err = mgr.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, mgr.Down())

	var count int
	err = db.Conn().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'events'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, db.Ping(), "closing the manager must leave the connection open")
}
