package counter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/env"
)

const isolatedCounterTestRedisDB = 13

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", env.GetEnv("CACHE_HOST", "localhost"), env.GetEnv("CACHE_PORT", "6379")),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       isolatedCounterTestRedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Skipping Redis-dependent test: no reachable Redis endpoint (%v)", err)
	}
	require.NoError(t, client.FlushDB(context.Background()).Err())

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func TestRecorderActivity(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(newTestRedis(t))

	require.NoError(t, rec.AddCommentCreated(ctx, 3))
	require.NoError(t, rec.AddCommentCreated(ctx, 3))
	require.NoError(t, rec.AddCommentDeleted(ctx, 3))
	require.NoError(t, rec.AddCommentCreated(ctx, 4))

	activity, err := rec.Activity(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, CommentActivity{ImageID: 3, Created: 2, Deleted: 1}, activity)
}

func TestRecorderActivityEmpty(t *testing.T) {
	rec := NewRecorder(newTestRedis(t))

	activity, err := rec.Activity(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, CommentActivity{ImageID: 99}, activity)
}

func TestField(t *testing.T) {
	assert.Equal(t, "42", field(42))
}
