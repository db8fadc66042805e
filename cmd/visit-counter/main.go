package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/tckz/visit-counter/internal/counter"
	"github.com/tckz/visit-counter/internal/handler"
	"github.com/tckz/visit-counter/internal/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  = zap.NewNop().Sugar()
	version string
)

var (
	optLogLevel     = flag.String("log-level", "info", "debug|info|warn|error")
	optListen       = flag.String("listen", "", "addr:port to listen on, defaults to :$PORT or :8080")
	optPath         = flag.String("path", "/count", "path of the counter endpoint")
	optAllowOrigin  = flag.String("allow-origin", "*", "value of Access-Control-Allow-Origin")
	optStore        = flag.String("store", "memory", "memory|redis|datastore")
	optKey          = flag.String("key", counter.DefaultKey, "key of the counter record")
	optRedis        = flag.String("redis", "", "addr:port of redis")
	optKind         = flag.String("kind", counter.DefaultKind, "datastore kind")
	optNameSpace    = flag.String("ns", "", "datastore namespace")
	optStoreTimeout = flag.Duration("store-timeout", 5*time.Second, "timeout of each store call [0 = none]")
	optShutdown     = flag.Duration("shutdown-timeout", 10*time.Second, "grace period for in-flight requests")
)

func main() {
	godotenv.Load()

	// parsed here rather than in init so that tests keep their own flags
	flag.Parse()

	logger = log.Must(log.NewLogger(log.WithLogLevel(*optLogLevel))).Sugar().With(zap.String("app", myName))

	logger.Infof("ver=%s, args=%s", version, os.Args)
	defer logger.Infof("done")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		logger.Fatalf("*** run: %v", err)
	}
}

func listenAddr() string {
	if *optListen != "" {
		return *optListen
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return net.JoinHostPort("", port)
}

func newRouter(c counter.Counter) *mux.Router {
	r := mux.NewRouter()
	r.Handle(*optPath, handler.New(c,
		handler.WithLogger(logger),
		handler.WithTimeout(*optStoreTimeout),
		handler.WithAllowOrigin(*optAllowOrigin),
	))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return r
}

func counterConfig() counter.Config {
	return counter.Config{
		Store:     *optStore,
		Key:       *optKey,
		RedisAddr: *optRedis,
		ProjectID: os.Getenv("PROJECT_ID"),
		Kind:      *optKind,
		Namespace: *optNameSpace,
	}
}

func run(ctx context.Context) error {
	c, closeStore, err := counter.Open(ctx, counterConfig())
	if err != nil {
		return fmt.Errorf("counter.Open: %w", err)
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              listenAddr(),
		Handler:           newRouter(c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Infof("listening on %s, store=%s, path=%s", srv.Addr, *optStore, *optPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ListenAndServe: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Infof("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), *optShutdown)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("Shutdown: %w", err)
		}
		return nil
	})

	return eg.Wait()
}
