package counter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisCounter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}

	cl := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{addr},
	})
	t.Cleanup(func() { cl.Close() })

	key := "visit-counter-test:" + uuid.New().String()
	t.Cleanup(func() { cl.Del(context.Background(), key) })

	testCounter(t, NewRedisCounter(cl, key), 8)
}

func TestRedisCounter_Unreachable(t *testing.T) {
	cl := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { cl.Close() })

	c := NewRedisCounter(cl, DefaultKey)

	_, err := c.Up(context.Background())
	require.ErrorIs(t, err, ErrStore)

	_, err = c.Get(context.Background())
	require.ErrorIs(t, err, ErrStore)
}
