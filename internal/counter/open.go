package counter

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/redis/go-redis/v9"
)

// Config selects and addresses the backing store.
type Config struct {
	Store     string // memory|redis|datastore
	Key       string
	RedisAddr string
	ProjectID string
	Kind      string
	Namespace string
}

// Open builds the Counter described by cfg. The returned func releases its client.
func Open(ctx context.Context, cfg Config) (Counter, func(), error) {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}

	switch cfg.Store {
	case "memory":
		return NewMemoryCounter(key), func() {}, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, nil, fmt.Errorf("redis address must be specified for store=redis")
		}
		cl := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        []string{cfg.RedisAddr},
			DialTimeout:  time.Second * 2,
			ReadTimeout:  time.Second * 2,
			WriteTimeout: time.Second * 2,
			PoolSize:     200,
			PoolTimeout:  time.Second * 5,
		})
		return NewRedisCounter(cl, key), func() { cl.Close() }, nil
	case "datastore":
		cl, err := datastore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("datastore.NewClient: %w", err)
		}
		kind := cfg.Kind
		if kind == "" {
			kind = DefaultKind
		}
		return NewDatastoreCounter(cl, kind, key, cfg.Namespace), func() { cl.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store: %q", cfg.Store)
	}
}
