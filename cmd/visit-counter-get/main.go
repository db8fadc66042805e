package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/tckz/visit-counter/internal/counter"
	"github.com/tckz/visit-counter/internal/log"
	"go.uber.org/zap"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  *zap.SugaredLogger
	version string
)

var (
	optLogLevel  = flag.String("log-level", "info", "info|warn|error")
	optStore     = flag.String("store", "datastore", "redis|datastore")
	optKey       = flag.String("key", counter.DefaultKey, "key of the counter record")
	optRedis     = flag.String("redis", "", "addr:port of redis")
	optKind      = flag.String("kind", counter.DefaultKind, "datastore kind")
	optNameSpace = flag.String("ns", "", "datastore namespace")
	optTimeout   = flag.Duration("timeout", 10*time.Second, "timeout of the read")
)

func init() {
	godotenv.Load()

	flag.Parse()

	logger = log.Must(log.NewLogger(log.WithLogLevel(*optLogLevel))).Sugar().With(zap.String("app", myName))
}

func main() {
	logger.Infof("ver=%s, args=%s", version, os.Args)

	ctx, cancel := context.WithTimeout(context.Background(), *optTimeout)
	defer cancel()

	c, closeStore, err := counter.Open(ctx, counter.Config{
		Store:     *optStore,
		Key:       *optKey,
		RedisAddr: *optRedis,
		ProjectID: os.Getenv("PROJECT_ID"),
		Kind:      *optKind,
		Namespace: *optNameSpace,
	})
	if err != nil {
		logger.Fatalf("*** counter.Open: %v", err)
	}
	defer closeStore()

	n, err := c.Get(ctx)
	if err != nil {
		logger.Errorf("Get: %v", err)
		return
	}

	fmt.Fprintf(os.Stdout, "%d\n", n)
}
