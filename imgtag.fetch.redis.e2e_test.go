//go:build integration

package imgtag

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts an ephemeral redis container and returns a client on it.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisFetchCache_E2E(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	cache := NewRedisFetchCache(client, RedisFetchCacheConfig{KeyPrefix: "test:fetch:", TTL: time.Minute})

	_, ok, err := cache.Get(ctx, "https://a.test/x.png")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "https://a.test/x.png", testResponse("https://a.test/x.png", "png")))
	got, ok, err := cache.Get(ctx, "https://a.test/x.png")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "png", string(got.Body))
	assert.Equal(t, []string{"image/png"}, got.Header["Content-Type"])

	ttl, err := client.TTL(ctx, "test:fetch:https://a.test/x.png").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	require.NoError(t, cache.Delete(ctx, "https://a.test/x.png"))
	_, ok, _ = cache.Get(ctx, "https://a.test/x.png")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "a", testResponse("a", "1")))
	require.NoError(t, cache.Set(ctx, "b", testResponse("b", "2")))
	require.NoError(t, client.Set(ctx, "other:key", "kept", 0).Err())
	require.NoError(t, cache.Clear(ctx))

	keys, err := client.Keys(ctx, "test:fetch:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, "kept", client.Get(ctx, "other:key").Val())
}

func TestRedisFetchCache_E2E_SharedAcrossFactories(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "body %d", hits.Add(1))
	}))
	defer srv.Close()

	newFactory := func() *Factory {
		return newTestFactory(t,
			WithHTTPClient(srv.Client()),
			WithFetchCache(NewRedisFetchCache(client, RedisFetchCacheConfig{})),
		)
	}
	first, second := newFactory(), newFactory()

	resp, err := first.Create(ctx, srv.URL+"/a.png", nil, nil).HTTP(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "body 1", string(resp.Body))

	resp, err = second.Create(ctx, srv.URL+"/a.png", nil, nil).HTTP(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "body 1", string(resp.Body))
	assert.Equal(t, int64(1), hits.Load())
}
