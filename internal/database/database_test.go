package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gemvoyage/web/internal/storage"
)

func startPostgres(t *testing.T) Service {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("gemvoyage"),
		postgres.WithUsername("gem"),
		postgres.WithPassword("voyage"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	svc, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestDeviceStorage(t *testing.T) {
	svc := startPostgres(t)
	ctx := context.Background()

	alice := svc.ForDevice("device-a")
	bob := svc.ForDevice("device-b")

	require.NoError(t, alice.SetItem(ctx, storage.KeyUserID, "alice"))
	require.NoError(t, alice.SetItem(ctx, storage.KeyUserID, "alice-2"))
	require.NoError(t, bob.SetItem(ctx, storage.KeyUserID, "bob"))

	v, ok, err := alice.GetItem(ctx, storage.KeyUserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice-2", v)

	v, ok, err = bob.GetItem(ctx, storage.KeyUserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bob", v)

	var count int64
	require.NoError(t, svc.GetDB().Model(&DeviceItem{}).Where("device_id = ?", "device-a").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, alice.RemoveItem(ctx, storage.KeyUserID))
	_, ok, err = alice.GetItem(ctx, storage.KeyUserID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHealth(t *testing.T) {
	svc := startPostgres(t)

	stats := svc.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Contains(t, stats, "open_connections")
}
