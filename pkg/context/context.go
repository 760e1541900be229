package context

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/assetnote/httpfetch/pkg/log"
)

var (
	ctx     context.Context
	cancel  context.CancelFunc
	ctxOnce sync.Once
)

// watchSignals cancels the process context on the first SIGINT/SIGTERM so in-flight fetches
// can return. A second signal exits immediately
func watchSignals(ctx context.Context, cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		received := 0
		for {
			select {
			case <-c:
				received++
				if received > 1 {
					log.Info().Msg("received second interrupt. exiting")
					os.Exit(1)
				}
				log.Info().Msg("received interrupt. cancelling in-flight requests")
				cancel()
			case <-ctx.Done():
				signal.Stop(c)
				return
			}
		}
	}()
}

func initContext() {
	ctxOnce.Do(func() {
		ctx, cancel = context.WithCancel(context.Background())
		watchSignals(ctx, cancel)
	})
}

// Context returns the process wide context. It is safe to call from multiple goroutines and always
// returns the same context
func Context() context.Context {
	initContext()
	return ctx
}

// WithTimeout derives a context from the process context. A zero timeout yields no deadline
func WithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(Context())
	}
	return context.WithTimeout(Context(), d)
}
