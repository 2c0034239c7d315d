package apogo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultWatchInterval = time.Second

	retryBase     = 500 * time.Millisecond
	retryAttempts = 3
)

// Watcher is the built-in poll driver: a background loop calling
// [Client.PollAndUpdate] on an interval. Transient errors are retried with
// exponential backoff inside the cycle and then logged; they never escape
// the loop. Authentication and decode errors are not retried, since
// repeating the same request cannot fix them.
//
// The Watcher is the one place the library runs background work, and only
// when the embedding application starts it explicitly.
type Watcher struct {
	client   *Client
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a Watcher polling through client. If interval is zero
// or negative it defaults to one second. The watcher is idle until Start is
// called.
func NewWatcher(client *Client, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	return &Watcher{client: client, interval: interval}
}

// Start stops any previously running loop, then launches a goroutine that
// runs one poll cycle, sleeps interval, and repeats. The goroutine exits
// when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			w.pollOnce(loopCtx)

			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
			}
		}
	}()
}

// Stop cancels the loop and blocks until the goroutine has fully exited.
// Safe to call when the watcher is not running.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// pollOnce runs one poll cycle, retrying transient transport failures with
// capped exponential backoff. The long poll itself blocks until the server
// answers or the transport deadline fires, so the interval between cycles
// only adds to the server-side hold time.
func (w *Watcher) pollOnce(ctx context.Context) {
	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := w.client.PollAndUpdate(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrTransport) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil && ctx.Err() == nil {
		w.client.opts.logger.Error().Err(err).Msg("poll cycle failed")
	}
}
