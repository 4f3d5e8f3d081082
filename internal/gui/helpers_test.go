package gui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage"
)

// setupServices opens a migrated in-memory store and signs in a fresh player.
func setupServices(t *testing.T) *Services {
	t.Helper()

	config := storage.DefaultConfig(storage.MemoryPath)
	config.AutoMigrate = true
	db, err := storage.Open(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := storage.NewService(db, nil)
	services := &Services{
		Storage: svc,
		Auth:    auth.NewAuthenticator(svc.Players(), nil, nil),
	}

	_, err = NewPlayerFacade(services).Register(context.Background(), auth.Registration{
		Name:     "Lucía Pérez",
		Email:    "lucia@example.com",
		Password: "triple-doble",
	})
	require.NoError(t, err)
	return services
}

// receive waits for the next snapshot of sub.
func receive[T any](t *testing.T, sub *events.Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.C():
		require.True(t, ok, "subscription closed: %v", sub.Err())
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero T
	return zero
}
