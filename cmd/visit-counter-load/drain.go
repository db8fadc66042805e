package main

import (
	"context"
	"os"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

type tally struct {
	hits     int64
	failures int64
}

// drain consumes res until it is closed. A signal or a failed encode cancels the
// attack, but draining goes on so that no hit is still running when drain returns.
// Only after that may channels written by hits be closed.
func drain(res <-chan *vegeta.Result, sig <-chan os.Signal, cancel context.CancelFunc, encode func(*vegeta.Result) error) (tally, error) {
	var t tally
	var encErr error
	for {
		select {
		case s := <-sig:
			logger.Infof("Received signal: %s", s)
			cancel()
		case r, ok := <-res:
			if !ok {
				return t, encErr
			}
			t.hits++
			if r.Error != "" {
				t.failures++
			}
			if encErr != nil {
				continue
			}
			if err := encode(r); err != nil {
				logger.Errorf("*** Encode: %v", err)
				encErr = err
				cancel()
			}
		}
	}
}
