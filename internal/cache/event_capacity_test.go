package cache_test

import (
	"context"
	"testing"

	"eventsync/config"
	"eventsync/internal/cache"
	"eventsync/internal/database"
	apperrors "eventsync/pkg/app_errors"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedis 連到測試 Redis，連不上就跳過（需要本地 Redis 的整合測試）
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	cfg := config.LoadTestConfig()
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		t.Skipf("redis unavailable, skipping: %v", err)
	}
	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		rdb.Close()
	})
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	return rdb
}

func TestEventCapacityManager_ReserveRelease(t *testing.T) {
	ctx := context.Background()
	rdb := setupRedis(t)
	manager := cache.NewEventCapacityManager(rdb)

	t.Run("Success - reserve up to the cap", func(t *testing.T) {
		require.NoError(t, manager.WarmUp(ctx, "ev-1", 2, nil))

		reserved, err := manager.Reserve(ctx, "ev-1", "user-a")
		require.NoError(t, err)
		assert.True(t, reserved)

		reserved, err = manager.Reserve(ctx, "ev-1", "user-b")
		require.NoError(t, err)
		assert.True(t, reserved)
	})

	t.Run("Failed - third reservation is rejected", func(t *testing.T) {
		_, err := manager.Reserve(ctx, "ev-1", "user-c")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrEventFull)
	})

	t.Run("Success - existing member does not consume a slot", func(t *testing.T) {
		reserved, err := manager.Reserve(ctx, "ev-1", "user-a")
		require.NoError(t, err)
		assert.False(t, reserved)
	})

	t.Run("Success - release frees a slot", func(t *testing.T) {
		require.NoError(t, manager.Release(ctx, "ev-1", "user-a"))

		reserved, err := manager.Reserve(ctx, "ev-1", "user-c")
		require.NoError(t, err)
		assert.True(t, reserved)
	})
}

func TestEventCapacityManager_NotWarmed(t *testing.T) {
	ctx := context.Background()
	rdb := setupRedis(t)
	manager := cache.NewEventCapacityManager(rdb)

	_, err := manager.Reserve(ctx, "ev-unknown", "user-a")
	require.Error(t, err)
	assert.ErrorIs(t, err, cache.ErrNotWarmed)
}

func TestEventCapacityManager_WarmUpWithMembers(t *testing.T) {
	ctx := context.Background()
	rdb := setupRedis(t)
	manager := cache.NewEventCapacityManager(rdb)

	require.NoError(t, manager.WarmUp(ctx, "ev-2", 3, []string{"user-a", "user-b"}))

	// 既有成員已佔兩個名額，只剩一個
	reserved, err := manager.Reserve(ctx, "ev-2", "user-c")
	require.NoError(t, err)
	assert.True(t, reserved)

	_, err = manager.Reserve(ctx, "ev-2", "user-d")
	assert.ErrorIs(t, err, apperrors.ErrEventFull)
}

func TestEventCapacityManager_Drop(t *testing.T) {
	ctx := context.Background()
	rdb := setupRedis(t)
	manager := cache.NewEventCapacityManager(rdb)

	require.NoError(t, manager.WarmUp(ctx, "ev-3", 1, nil))
	require.NoError(t, manager.Drop(ctx, "ev-3"))

	// Drop 之後回到未預熱狀態
	_, err := manager.Reserve(ctx, "ev-3", "user-a")
	assert.ErrorIs(t, err, cache.ErrNotWarmed)
}
