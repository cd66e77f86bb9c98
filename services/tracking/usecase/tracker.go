package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sparkclean/cleantrack/internal/pkg/constants"
	httpclient "github.com/sparkclean/cleantrack/internal/pkg/http"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/metrics"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	nrpkg "github.com/sparkclean/cleantrack/internal/pkg/newrelic"
	"github.com/sparkclean/cleantrack/services/tracking"
)

// Realtime modes reported to viewers and readiness checks
const (
	RealtimeModeLive        = "live"
	RealtimeModePollingOnly = "polling_only"
)

// DefaultReloadInterval is how often a mounted view reloads the booking list
const DefaultReloadInterval = 30 * time.Second

const refreshFallbackMessage = "Unable to refresh tracking right now. Please try again."

// TrackerConfig tunes the hosting view runtime
type TrackerConfig struct {
	ReloadInterval time.Duration
	NewRelic       *newrelic.Application
}

// Tracker is the runtime of the track view: it keeps the booking list fresh
// while mounted and feeds it to the session controller.
type Tracker struct {
	bookingGW      tracking.BookingGW
	cache          *BookingListCache
	controller     *Controller
	reloadInterval time.Duration
	nrApp          *newrelic.Application

	mu      sync.Mutex
	mounted bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewTracker creates an unmounted tracker
func NewTracker(bookingGW tracking.BookingGW, cache *BookingListCache, controller *Controller, cfg TrackerConfig) *Tracker {
	if cfg.ReloadInterval <= 0 {
		cfg.ReloadInterval = DefaultReloadInterval
	}
	return &Tracker{
		bookingGW:      bookingGW,
		cache:          cache,
		controller:     controller,
		reloadInterval: cfg.ReloadInterval,
		nrApp:          cfg.NewRelic,
	}
}

// Mount loads the booking list, syncs the session and starts the periodic
// reload. The initial load error is returned for logging only; the view is
// mounted either way. Mounting twice just reloads.
func (t *Tracker) Mount(ctx context.Context) error {
	t.mu.Lock()
	if !t.mounted {
		loopCtx, cancel := context.WithCancel(context.Background())
		t.mounted = true
		t.cancel = cancel
		t.done = make(chan struct{})
		go t.reloadLoop(loopCtx, t.done)
		logger.Info("Tracking view mounted",
			logger.Duration("reload_interval", t.reloadInterval),
			logger.String("realtime_mode", t.RealtimeMode()))
	}
	t.mu.Unlock()

	return t.reload(ctx)
}

func (t *Tracker) reloadLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.reloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			txnCtx, end := nrpkg.BackgroundContext(ctx, t.nrApp, "tracking.bookings_reload")
			_ = t.reload(txnCtx)
			end()
		}
	}
}

// reload fetches the booking list and applies it. Failures are logged and counted.
func (t *Tracker) reload(ctx context.Context) error {
	bookings, err := t.bookingGW.ListBookings(ctx)
	if err != nil {
		metrics.BookingsReloadTotal.WithLabelValues(metrics.ResultError).Inc()
		logger.Warn("Booking list reload failed", logger.Err(err))
		return err
	}
	metrics.BookingsReloadTotal.WithLabelValues(metrics.ResultOK).Inc()
	t.apply(ctx, bookings)
	return nil
}

// apply replaces the cached list and, while mounted, syncs the session with it
func (t *Tracker) apply(ctx context.Context, bookings []models.Booking) {
	t.cache.Replace(bookings)

	t.mu.Lock()
	mounted := t.mounted
	t.mu.Unlock()
	if mounted {
		t.controller.Sync(ctx, bookings)
	}
}

// Refresh is the manual pull-to-refresh: booking list, then the snapshot of
// the (possibly new) active booking. Failures come back as *models.Notice.
func (t *Tracker) Refresh(ctx context.Context) (models.TrackingState, error) {
	bookings, err := t.bookingGW.ListBookings(ctx)
	if err != nil {
		metrics.BookingsReloadTotal.WithLabelValues(metrics.ResultError).Inc()
		return t.State(), refreshNotice(err)
	}
	metrics.BookingsReloadTotal.WithLabelValues(metrics.ResultOK).Inc()
	t.apply(ctx, bookings)

	if err := t.controller.RefreshSnapshot(ctx); err != nil && !errors.Is(err, tracking.ErrNoActiveSession) {
		return t.State(), refreshNotice(err)
	}
	return t.State(), nil
}

func refreshNotice(err error) *models.Notice {
	logger.Warn("Manual tracking refresh failed", logger.Err(err))
	return &models.Notice{
		Code:    constants.ErrorRefreshFailed,
		Message: httpclient.UserMessage(err, refreshFallbackMessage),
		Err:     err,
	}
}

// Dismiss stops the reload loop and tears the session down. Safe to call repeatedly.
func (t *Tracker) Dismiss() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	wasMounted := t.mounted
	t.mounted = false
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if wasMounted {
		cancel()
		<-done
		logger.Info("Tracking view dismissed")
	}
	t.controller.Dismiss()
}

// State returns the current tracking state
func (t *Tracker) State() models.TrackingState {
	return t.withBookingsTime(t.controller.State())
}

func (t *Tracker) withBookingsTime(state models.TrackingState) models.TrackingState {
	if at := t.cache.UpdatedAt(); !at.IsZero() {
		state.BookingsUpdatedAt = &at
	}
	return state
}

// Bookings returns the cached booking list
func (t *Tracker) Bookings() []models.Booking {
	return t.cache.List()
}

// Subscribe registers a tracking state listener
func (t *Tracker) Subscribe(listener func(models.TrackingState)) func() {
	return t.controller.Subscribe(func(state models.TrackingState) {
		listener(t.withBookingsTime(state))
	})
}

// RealtimeMode reports whether live updates are pushed or only polled
func (t *Tracker) RealtimeMode() string {
	if t.controller.RealtimeAvailable() {
		return RealtimeModeLive
	}
	return RealtimeModePollingOnly
}
