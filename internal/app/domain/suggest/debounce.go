package suggest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/domain/session"
	"github.com/mfstratton/concertfindr/internal/app/models"
)

// Debouncer coalesces rapid successive Suggest calls so only the last
// input inside the quiet window reaches the network, and only the newest
// call's results are ever delivered. Obsolete in-flight calls are not
// cancelled at the transport level; their results are discarded on
// arrival (cooperative obsolescence).
type Debouncer struct {
	service Service
	wait    time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewDebouncer(service Service, wait time.Duration, logger *zap.Logger) *Debouncer {
	if wait <= 0 {
		wait = 300 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Debouncer{
		service: service,
		wait:    wait,
		logger:  logger,
	}
}

// Suggest schedules a debounced lookup. deliver runs at most once, and
// only if no newer Suggest call supersedes this one first. Short queries
// still short-circuit through the service, so the empty result is
// delivered (after the quiet window) rather than dropped.
func (d *Debouncer) Suggest(ctx context.Context, query string, token session.Token, deliver func([]models.PlaceSuggestion, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.wait, func() {
		if !d.current(gen) {
			return
		}
		if ctx.Err() != nil {
			// Caller navigated away while we were waiting.
			d.logger.Debug("Debounced suggest dropped", zap.Error(ctx.Err()))
			return
		}

		suggestions, err := d.service.Suggest(ctx, query, token)

		// Re-check after the network call; a newer query may have started
		// while this one was in flight. Last query wins.
		if !d.current(gen) {
			d.logger.Debug("Stale suggest result discarded", zap.String("query", query))
			return
		}
		deliver(suggestions, err)
	})
}

// Cancel drops any pending call without delivering it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}
