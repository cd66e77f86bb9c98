package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/metrics"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/internal/utils"
	"github.com/sparkclean/cleantrack/services/tracking"
)

// ControllerConfig tunes the session controller
type ControllerConfig struct {
	PollInterval time.Duration
	// MonotonicLocations drops live events older than the displayed location
	MonotonicLocations bool
}

// Controller binds the live channel and the polling fallback to the single
// active booking and merges both into one tracking snapshot.
//
// Every transition runs under mu. Network calls never do: their results carry
// the generation they were issued for and are discarded when it has moved on.
// openMu serialises channel opens so two subscriptions never coexist.
type Controller struct {
	source    SnapshotSource
	channel   tracking.LocationChannel
	poller    PollingFallback
	interval  time.Duration
	monotonic bool
	now       func() time.Time

	openMu sync.Mutex

	mu        sync.Mutex
	gen       uint64
	phase     models.SessionPhase
	bookingID string
	status    models.BookingStatus
	snapshot  *models.TrackingSnapshot
	sub       tracking.Subscription
	polling   bool
	updatedAt time.Time

	listeners    map[uint64]func(models.TrackingState)
	nextListener uint64
	stats        models.SessionStats
}

// NewController creates an idle controller. channel may be nil for polling-only mode.
func NewController(source SnapshotSource, channel tracking.LocationChannel, poller PollingFallback, cfg ControllerConfig) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Controller{
		source:    source,
		channel:   channel,
		poller:    poller,
		interval:  cfg.PollInterval,
		monotonic: cfg.MonotonicLocations,
		now:       time.Now,
		phase:     models.SessionPhaseIdle,
		listeners: make(map[uint64]func(models.TrackingState)),
	}
}

// RealtimeAvailable reports whether live channel subscriptions will be attempted
func (c *Controller) RealtimeAvailable() bool {
	return c.channel != nil && c.channel.Available()
}

// Sync derives the active booking from bookings and moves the session to match it.
// A new session blocks on its baseline fetch; failures there are not returned.
func (c *Controller) Sync(ctx context.Context, bookings []models.Booking) {
	active, ok := ActiveBooking(bookings)

	c.mu.Lock()
	if !ok {
		prevID := c.bookingID
		if c.phase != models.SessionPhaseIdle {
			c.teardownLocked()
			c.publishLocked()
		}
		c.mu.Unlock()
		c.forgetIfFinished(ctx, bookings, prevID)
		return
	}

	if c.phase != models.SessionPhaseIdle && c.bookingID == active.ID {
		if c.status != active.Status {
			logger.Debug("Active booking status changed",
				logger.BookingID(active.ID),
				logger.String("from", string(c.status)),
				logger.String("to", string(active.Status)))
			c.status = active.Status
			c.reconcilePollerLocked()
			c.publishLocked()
		}
		c.mu.Unlock()
		return
	}

	prevID := c.bookingID
	c.teardownLocked()
	c.gen++
	gen := c.gen
	c.phase = models.SessionPhaseLoading
	c.bookingID = active.ID
	c.status = active.Status
	c.stats.SessionsOpened++
	metrics.SessionsOpenedTotal.Inc()
	metrics.SessionOpen.Set(1)
	logger.Info("Tracking session opened",
		logger.BookingID(active.ID),
		logger.String("status", string(active.Status)))
	c.publishLocked()
	c.mu.Unlock()

	c.forgetIfFinished(ctx, bookings, prevID)
	snapshot := c.baseline(ctx, active.ID)

	c.mu.Lock()
	if c.gen != gen || c.phase != models.SessionPhaseLoading {
		c.discardLocked("baseline", active.ID)
		metrics.BaselineFetchTotal.WithLabelValues(metrics.ResultStale).Inc()
		c.mu.Unlock()
		return
	}
	c.snapshot = snapshot
	c.phase = models.SessionPhaseLive
	c.reconcilePollerLocked()
	if !c.RealtimeAvailable() {
		c.publishLocked()
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.openChannel(gen, active.ID)
}

// forgetIfFinished drops the stored snapshot of a booking that just left the
// tracked set as COMPLETED or CANCELLED, so it cannot seed a later baseline.
func (c *Controller) forgetIfFinished(ctx context.Context, bookings []models.Booking, bookingID string) {
	if bookingID == "" {
		return
	}
	for _, b := range bookings {
		if b.ID != bookingID || !b.Status.IsFinished() {
			continue
		}
		if err := c.source.Forget(ctx, bookingID); err != nil {
			logger.Debug("Failed to drop last known snapshot",
				logger.BookingID(bookingID),
				logger.Err(err))
		}
		return
	}
}

// baseline fetches the first snapshot of a session, falling back to the last
// stored one and then to an empty snapshot. It never fails.
func (c *Controller) baseline(ctx context.Context, bookingID string) *models.TrackingSnapshot {
	snapshot, err := c.source.Fetch(ctx, bookingID)
	if err == nil {
		metrics.BaselineFetchTotal.WithLabelValues(metrics.ResultOK).Inc()
		return snapshot
	}
	metrics.BaselineFetchTotal.WithLabelValues(metrics.ResultError).Inc()
	logger.Warn("Baseline snapshot fetch failed, continuing without it",
		logger.BookingID(bookingID),
		logger.Err(err))

	if last, lerr := c.source.LastKnown(ctx, bookingID); lerr == nil && last != nil {
		return last
	} else if lerr != nil && !errors.Is(lerr, tracking.ErrSnapshotNotFound) {
		logger.Debug("Last known snapshot unavailable",
			logger.BookingID(bookingID),
			logger.Err(lerr))
	}
	return &models.TrackingSnapshot{BookingID: bookingID}
}

// openChannel subscribes to the live channel with mu released; connecting may
// take a network round trip. The subscription is kept only if the session it
// was opened for is still live, and publishes the live state either way.
func (c *Controller) openChannel(gen uint64, bookingID string) {
	c.openMu.Lock()
	defer c.openMu.Unlock()

	sub, err := c.channel.Open(context.Background(), bookingID, func(event models.LocationEvent) {
		c.handleEvent(gen, event)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.gen == gen && c.phase == models.SessionPhaseLive && c.sub == nil

	if err != nil {
		logger.Warn("Live location channel unavailable, polling only",
			logger.BookingID(bookingID),
			logger.Err(err))
		if current {
			c.publishLocked()
		}
		return
	}
	if !current {
		if uerr := sub.Unsubscribe(); uerr != nil {
			logger.Debug("Unsubscribe failed", logger.BookingID(bookingID), logger.Err(uerr))
		}
		c.discardLocked("channel", bookingID)
		return
	}

	c.sub = sub
	c.stats.ChannelOpens++
	c.publishLocked()
}

// reconcilePollerLocked keeps the poller running exactly while a live session is EN_ROUTE
func (c *Controller) reconcilePollerLocked() {
	want := c.phase == models.SessionPhaseLive && c.status == models.BookingStatusEnRoute
	switch {
	case want && !c.polling:
		gen := c.gen
		c.poller.Start(c.bookingID, c.interval, func(ctx context.Context, bookingID string) {
			c.pollTick(ctx, gen, bookingID)
		})
		c.polling = true
		c.stats.PollerStarts++
	case !want && c.polling:
		c.poller.Stop()
		c.polling = false
		c.stats.PollerStops++
	}
}

// teardownLocked releases the channel and the poller and returns to idle.
// It is a no-op when nothing is open.
func (c *Controller) teardownLocked() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			logger.Debug("Unsubscribe failed", logger.BookingID(c.bookingID), logger.Err(err))
		}
		c.sub = nil
		c.stats.ChannelCloses++
	}
	if c.polling {
		c.poller.Stop()
		c.polling = false
		c.stats.PollerStops++
	}
	if c.phase == models.SessionPhaseIdle {
		return
	}

	logger.Info("Tracking session closed", logger.BookingID(c.bookingID))
	c.gen++
	c.phase = models.SessionPhaseIdle
	c.bookingID = ""
	c.status = ""
	c.snapshot = nil
	c.stats.SessionsClosed++
	metrics.SessionsClosedTotal.Inc()
	metrics.SessionOpen.Set(0)
}

func (c *Controller) handleEvent(gen uint64, event models.LocationEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen || c.phase != models.SessionPhaseLive {
		metrics.ChannelEventsTotal.WithLabelValues(metrics.ResultStale).Inc()
		c.discardLocked("channel", "")
		return
	}

	location := event.ToLocation(c.now())
	current := models.TrackingSnapshot{BookingID: c.bookingID}
	if c.snapshot != nil {
		current = *c.snapshot
	}
	if c.monotonic && current.Location != nil && location.Timestamp.Before(current.Location.Timestamp) {
		metrics.ChannelEventsTotal.WithLabelValues(metrics.ResultOlder).Inc()
		return
	}

	next := current.WithLocation(location)
	c.snapshot = &next
	metrics.ChannelEventsTotal.WithLabelValues(metrics.ResultApplied).Inc()
	c.publishLocked()
}

func (c *Controller) pollTick(ctx context.Context, gen uint64, bookingID string) {
	snapshot, err := c.source.Fetch(ctx, bookingID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen || c.phase != models.SessionPhaseLive {
		metrics.PollTicksTotal.WithLabelValues(metrics.ResultStale).Inc()
		c.discardLocked("poll", bookingID)
		return
	}
	if err != nil {
		metrics.PollTicksTotal.WithLabelValues(metrics.ResultError).Inc()
		logger.Debug("Poll fetch failed, keeping previous snapshot",
			logger.BookingID(bookingID),
			logger.Err(err))
		return
	}

	metrics.PollTicksTotal.WithLabelValues(metrics.ResultOK).Inc()
	c.snapshot = snapshot
	c.publishLocked()
}

// RefreshSnapshot re-fetches the snapshot of the current session. On failure
// the error is returned and the state is left as it was.
func (c *Controller) RefreshSnapshot(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == models.SessionPhaseIdle {
		c.mu.Unlock()
		return tracking.ErrNoActiveSession
	}
	gen, bookingID := c.gen, c.bookingID
	c.mu.Unlock()

	snapshot, err := c.source.Fetch(ctx, bookingID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.phase != models.SessionPhaseLive {
		c.discardLocked("refresh", bookingID)
		return nil
	}
	c.snapshot = snapshot
	c.publishLocked()
	return nil
}

func (c *Controller) discardLocked(source, bookingID string) {
	c.stats.StaleDiscarded++
	metrics.StaleResultsTotal.WithLabelValues(source).Inc()
	logger.Debug("Discarded stale tracking result",
		logger.String("source", source),
		logger.BookingID(bookingID))
}

// Dismiss tears the session down because the hosting view went away
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == models.SessionPhaseIdle && c.sub == nil && !c.polling {
		return
	}
	c.teardownLocked()
	c.publishLocked()
}

// State returns a copy of the current tracking state
func (c *Controller) State() models.TrackingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() models.TrackingState {
	state := models.TrackingState{
		Phase:         c.phase,
		BookingID:     c.bookingID,
		Status:        c.status,
		ChannelOpen:   c.sub != nil,
		PollerRunning: c.polling,
		UpdatedAt:     c.updatedAt,
	}
	if c.snapshot != nil {
		snapshot := *c.snapshot
		state.Snapshot = &snapshot
		state.Progress = utils.EstimateProgress(&snapshot)
	}
	return state
}

// publishLocked hands the new state to every listener. Listeners run under
// the controller lock and must neither block nor call back into it.
func (c *Controller) publishLocked() {
	c.updatedAt = c.now()
	state := c.stateLocked()
	for _, listener := range c.listeners {
		listener(state)
	}
}

// Subscribe registers a state listener and returns its removal func
func (c *Controller) Subscribe(listener func(models.TrackingState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.listeners, id)
		})
	}
}

// Stats returns the session resource counters
func (c *Controller) Stats() models.SessionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
