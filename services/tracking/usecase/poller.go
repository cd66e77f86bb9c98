package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sparkclean/cleantrack/internal/pkg/metrics"
	nrpkg "github.com/sparkclean/cleantrack/internal/pkg/newrelic"
)

// DefaultPollInterval is the polling fallback cadence
const DefaultPollInterval = 5000 * time.Millisecond

// TickFunc handles one poll tick for a booking
type TickFunc func(ctx context.Context, bookingID string)

// PollingFallback periodically invokes a tick function for one booking
type PollingFallback interface {
	Start(bookingID string, interval time.Duration, onTick TickFunc)
	Stop()
	Running() bool
}

// Poller runs onTick on a fixed interval. At most one tick is in flight:
// a tick that fires while the previous one is still running is skipped.
type Poller struct {
	nrApp *newrelic.Application

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewPoller creates a stopped poller. nrApp may be nil.
func NewPoller(nrApp *newrelic.Application) *Poller {
	return &Poller{nrApp: nrApp}
}

// Start begins ticking for bookingID, replacing any previous run
func (p *Poller) Start(bookingID string, interval time.Duration, onTick TickFunc) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop(bookingID, interval, onTick, p.stop, p.done)
}

func (p *Poller) loop(bookingID string, interval time.Duration, onTick TickFunc, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var inFlight atomic.Bool
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !inFlight.CompareAndSwap(false, true) {
				metrics.PollTicksTotal.WithLabelValues(metrics.ResultSkipped).Inc()
				continue
			}
			go func() {
				defer inFlight.Store(false)
				ctx, end := nrpkg.BackgroundContext(context.Background(), p.nrApp, "tracking.poll")
				defer end()
				onTick(ctx, bookingID)
			}()
		}
	}
}

// Stop cancels the timer and waits for the tick loop to exit.
// A tick already in flight is left to finish on its own.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop == nil {
		return
	}
	close(p.stop)
	<-p.done
	p.stop, p.done = nil, nil
}

// Running reports whether the timer is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}
