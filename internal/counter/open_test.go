package counter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, closeStore, err := Open(ctx, Config{Store: "memory"})
	require.NoError(t, err)
	closeStore()
	require.IsType(t, &MemoryCounter{}, c)
	assert.Equal(t, DefaultKey, c.(*MemoryCounter).key)

	c, closeStore, err = Open(ctx, Config{Store: "redis", RedisAddr: "127.0.0.1:6379", Key: "k"})
	require.NoError(t, err)
	closeStore()
	require.IsType(t, &RedisCounter{}, c)
	assert.Equal(t, "k", c.(*RedisCounter).key)

	_, _, err = Open(ctx, Config{Store: "redis"})
	assert.Error(t, err)

	_, _, err = Open(ctx, Config{Store: "sqlite"})
	assert.Error(t, err)
}
