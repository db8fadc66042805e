package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	vh "github.com/tckz/vegetahelper"
	"github.com/tckz/visit-counter/internal/handler"
	"github.com/tckz/visit-counter/internal/log"
	vegeta "github.com/tsenart/vegeta/v12/lib"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/idtoken"
)

var (
	myName  = filepath.Base(os.Args[0])
	logger  = zap.NewNop().Sugar()
	version string
)

var (
	optRate = &vh.RateFlag{
		Rate: &vegeta.Rate{
			Freq: 30,
			Per:  1 * time.Second,
		}}
	optDuration = flag.Duration("duration", 10*time.Second, "Duration of the test [0 = forever]")
	optOutput   = flag.String("output", "", "/path/to/results.bin or 'stdout', empty to discard")
	optWorkers  = flag.Uint64("workers", vegeta.DefaultWorkers, "Number of workers")
	optLogLevel = flag.String("log-level", "info", "info|warn|error")
	optURL      = flag.String("url", "", "URL of the counter endpoint")
	optMethod   = flag.String("method", http.MethodPost, "GET|POST")
	optAudience = flag.String("audience", "", "aud of id token to be attached, for Cloud Run")
)

type nopWriteCloser struct {
	io.Writer
}

func (c nopWriteCloser) Close() error {
	return nil
}

func openResultFile(out string) (io.WriteCloser, error) {
	switch out {
	case "":
		return &nopWriteCloser{io.Discard}, nil
	case "stdout":
		return &nopWriteCloser{os.Stdout}, nil
	default:
		return os.Create(out)
	}
}

func newHTTPClient(ctx context.Context) (*http.Client, error) {
	if *optAudience == "" {
		return &http.Client{Timeout: 30 * time.Second}, nil
	}

	// caller must be a service account, see GOOGLE_APPLICATION_CREDENTIALS
	var ts oauth2.TokenSource
	ts, err := idtoken.NewTokenSource(ctx, *optAudience)
	if err != nil {
		return nil, fmt.Errorf("idtoken.NewTokenSource: %w", err)
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: &oauth2.Transport{Source: ts, Base: http.DefaultTransport},
	}, nil
}

func hit(ctx context.Context, cl *http.Client) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, *optMethod, *optURL, nil)
	if err != nil {
		return 0, fmt.Errorf("http.NewRequest: %w", err)
	}
	res, err := cl.Do(req)
	if err != nil {
		return 0, fmt.Errorf("Do: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return 0, fmt.Errorf("status=%d, body=%s", res.StatusCode, b)
	}

	var body handler.CountResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("Decode: %w", err)
	}
	return body.Count, nil
}

func main() {
	godotenv.Load()

	flag.Var(optRate, "rate", "Number of requests per time unit")
	flag.Parse()

	logger = log.Must(log.NewLogger(log.WithLogLevel(*optLogLevel))).Sugar().With(zap.String("app", myName))

	logger.Infof("ver=%s, args=%s", version, os.Args)
	defer logger.Infof("done")

	if *optURL == "" {
		logger.Fatalf("*** --url must be specified.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cl, err := newHTTPClient(ctx)
	if err != nil {
		logger.Fatalf("*** newHTTPClient: %v", err)
	}

	chCount := make(chan int64, 100)
	var counts []int64
	var eg errgroup.Group
	eg.Go(func() error {
		// drains until close so that attackers never block on send
		for n := range chCount {
			counts = append(counts, n)
		}
		return nil
	})

	atk := vh.NewAttacker(func(ctx context.Context) (result *vh.HitResult, retErr error) {
		n, err := hit(ctx, cl)
		if err != nil {
			return nil, err
		}
		// never blocks for long: the collector runs until chCount is closed after drain
		chCount <- n
		return result, nil
	}, vh.WithWorkers(*optWorkers))
	res := atk.Attack(ctx, *optRate.Rate, *optDuration, "visit-counter")

	out, err := openResultFile(*optOutput)
	if err != nil {
		logger.Fatal(err)
	}
	defer out.Close()
	enc := vegeta.NewEncoder(out)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)

	t, err := drain(res, sig, cancel, enc.Encode)
	if err != nil {
		logger.Errorf("*** drain: %v", err)
	}

	close(chCount)
	logger.Infof("waiting collector exit")
	if err := eg.Wait(); err != nil {
		logger.Errorf("Wait: %v", err)
	}

	rep := analyze(counts)
	logger.Infof("hits=%d, failures=%d, %s", t.hits, t.failures, rep)
	if !rep.OK() {
		logger.Warnf("duplicates=%v", rep.Duplicates)
		logger.Warnf("missing=%v", rep.Missing)
	}
}
