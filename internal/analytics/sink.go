package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// AsyncSink forwards logs to another Sink in the background. Failures are
// logged and otherwise dropped; gameplay never waits on analytics.
type AsyncSink struct {
	next    Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncSink wraps next. timeout bounds each write (default 5s).
func NewAsyncSink(next Sink, timeout time.Duration) *AsyncSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AsyncSink{next: next, timeout: timeout}
}

// Log schedules gl and returns immediately. The caller's context is not
// used so the write outlives the request.
func (a *AsyncSink) Log(_ context.Context, gl GameLog) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.next.Log(ctx, gl); err != nil {
			log.Warn().Err(err).Str("owner", gl.OwnerID).Str("date", gl.Date).Msg("game log dropped")
		}
	}()
	return nil
}

// Wait blocks until every scheduled write has finished. Used on shutdown.
func (a *AsyncSink) Wait() { a.wg.Wait() }
