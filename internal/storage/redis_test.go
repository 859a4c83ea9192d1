package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/story-locations/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewRedisStorage("redis://"+mr.Addr(), ttl, logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis storage: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
		mr.Close()
	})
	return store, mr
}

func sampleWorld() *world.Registry {
	reg := world.NewRegistry()
	forest := world.NewLocation(1, "Forest")
	forest.AddExit("north", 2)
	cave := world.NewLocation(2, "Cave, cold and wet")
	cave.AddExit("south", 1)
	cave.AddExit("down", 99)
	reg.Put(1, forest)
	reg.Put(2, cave)
	return reg
}

func TestNewRedisStorage_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	_, err := NewRedisStorage("not a url", 0, logger)
	assert.Error(t, err)
}

func TestRedisStorage_SaveAndLoad(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	original := sampleWorld()
	id := uuid.New()
	require.NoError(t, store.SaveWorld(ctx, id, original))

	assert.True(t, mr.Exists("world:"+id.String()))
	members, err := mr.Members("worlds")
	require.NoError(t, err)
	assert.Equal(t, []string{id.String()}, members)

	loaded, err := store.LoadWorld(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, original.Equal(loaded))
	assert.Equal(t, original.IDs(), loaded.IDs())
}

func TestRedisStorage_LoadMissing(t *testing.T) {
	store, _ := setupTestRedis(t, 0)

	loaded, err := store.LoadWorld(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_LoadCorrupt(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	id := uuid.New()
	require.NoError(t, mr.Set("world:"+id.String(), "{not json"))

	_, err := store.LoadWorld(context.Background(), id)
	assert.Error(t, err)
}

func TestRedisStorage_Overwrite(t *testing.T) {
	store, _ := setupTestRedis(t, 0)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.SaveWorld(ctx, id, sampleWorld()))

	smaller := world.NewRegistry()
	smaller.Put(5, world.NewLocation(5, "Lake"))
	require.NoError(t, store.SaveWorld(ctx, id, smaller))

	loaded, err := store.LoadWorld(ctx, id)
	require.NoError(t, err)
	assert.True(t, smaller.Equal(loaded))
}

func TestRedisStorage_DeleteAndList(t *testing.T) {
	store, _ := setupTestRedis(t, 0)
	ctx := context.Background()

	first, err := SaveNewWorld(ctx, store, sampleWorld())
	require.NoError(t, err)
	second, err := SaveNewWorld(ctx, store, sampleWorld())
	require.NoError(t, err)

	ids, err := store.ListWorlds(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, ids)

	require.NoError(t, store.DeleteWorld(ctx, first))

	ids, err = store.ListWorlds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second}, ids)

	loaded, err := store.LoadWorld(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_TTL(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	id, err := SaveNewWorld(ctx, store, sampleWorld())
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("world:"+id.String()))

	mr.FastForward(2 * time.Hour)

	ids, err := store.ListWorlds(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	members, _ := mr.Members("worlds")
	assert.Empty(t, members, "expired worlds are pruned from the index")
}

func TestRedisStorage_WaitForConnection(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("available", func(t *testing.T) {
		store, _ := setupTestRedis(t, 0)
		assert.NoError(t, store.WaitForConnection(context.Background(), 3, time.Millisecond))
	})

	t.Run("unavailable", func(t *testing.T) {
		store, err := NewRedisStorage("redis://127.0.0.1:1", 0, logger)
		require.NoError(t, err)
		defer store.Close()

		err = store.WaitForConnection(context.Background(), 2, time.Millisecond)
		assert.Error(t, err)
	})
}

func TestRedisStorage_WaitForConnectionCancelled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewRedisStorage("redis://127.0.0.1:1", 0, logger)
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.WaitForConnection(ctx, 5, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
