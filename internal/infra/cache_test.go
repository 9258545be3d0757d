package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/ordering/internal/config"
)

func TestNewCacheClient(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	c := context.Background()

	redisContainer, err := tcRedis.Run(c, "redis:7.4-alpine")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	defer func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	host, err := redisContainer.Host(c)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(c, "6379/tcp")
	require.NoError(t, err)

	client, err := NewCacheClient(c, config.Cache{Host: host, Port: uint16(port.Int())})
	require.NoError(t, err)
	defer client.Close()

	cache := NewEntityCache(client, time.Minute)
	require.NoError(t, cache.Set(c, "order:1", map[string]string{"status": "pending"}))
	actual := map[string]string{}
	found, err := cache.Get(c, "order:1", &actual)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pending", actual["status"])

	ttl, err := client.TTL(c, "order:1").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	_, err = NewCacheClient(c, config.Cache{Host: host, Port: 1})
	assert.Error(t, err)
}
