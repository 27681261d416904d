package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/nulzo/inference-gateway/internal/store"
	"github.com/nulzo/inference-gateway/internal/store/model"
	"github.com/nulzo/inference-gateway/internal/store/storetest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.JobRepository {
		mr := setupTestRedis(t)
		s, err := New(Config{Addr: mr.Addr(), Prefix: "test:"})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_KeyLayout(t *testing.T) {
	mr := setupTestRedis(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewWithClient(client, "gw:")
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &model.Job{ID: "batch_1", Kind: model.KindBatch}))

	assert.True(t, mr.Exists("gw:job:batch_1"))
	members, err := mr.ZMembers("gw:jobs:batch")
	require.NoError(t, err)
	assert.Equal(t, []string{"batch_1"}, members)

	require.NoError(t, s.Delete(ctx, "batch_1"))
	assert.False(t, mr.Exists("gw:job:batch_1"))
}

func TestNew_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = New(Config{Addr: addr})
	assert.Error(t, err)
}
