package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/services/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_NoActiveBookingStaysIdle(t *testing.T) {
	lists := [][]models.Booking{
		nil,
		{},
		{booking("b1", models.BookingStatusPending), booking("b2", models.BookingStatusCompleted)},
		{booking("b3", models.BookingStatusMatched), booking("b4", models.BookingStatusAccepted), booking("b5", models.BookingStatusCancelled)},
	}

	for _, list := range lists {
		f := newControllerFixture(ControllerConfig{})
		f.ctrl.Sync(context.Background(), list)

		state := f.ctrl.State()
		assert.Equal(t, models.SessionPhaseIdle, state.Phase)
		assert.Nil(t, state.Snapshot)
		assert.False(t, state.ChannelOpen)
		assert.False(t, state.PollerRunning)

		opens, _ := f.channel.counts()
		assert.Zero(t, opens)
		assert.Zero(t, f.poller.starts)
		assert.Zero(t, f.source.fetchCount())
	}
}

func TestController_EnRouteOpensSession(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)

	f.ctrl.Sync(context.Background(), []models.Booking{
		booking("b0", models.BookingStatusCompleted),
		booking("b1", models.BookingStatusEnRoute),
	})

	state := f.ctrl.State()
	assert.Equal(t, models.SessionPhaseLive, state.Phase)
	assert.Equal(t, "b1", state.BookingID)
	assert.Equal(t, models.BookingStatusEnRoute, state.Status)
	assert.True(t, state.ChannelOpen)
	assert.True(t, state.PollerRunning)
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, "cleaner-b1", state.Snapshot.Cleaner.ID)
	require.NotNil(t, state.Progress)
	assert.Greater(t, state.Progress.DistanceKm, 0.0)

	assert.Equal(t, []string{"b1"}, f.source.fetched())
	assert.Equal(t, []string{"b1"}, f.channel.topics)
	assert.Equal(t, "b1", f.poller.bookingID)
	assert.Equal(t, 5000*time.Millisecond, f.poller.interval)
	assert.Equal(t, 1, f.poller.starts)
}

func TestController_StatusChangeReconcilesPollerOnly(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
	require.True(t, f.poller.Running())

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusArrived)})

	state := f.ctrl.State()
	assert.Equal(t, models.SessionPhaseLive, state.Phase)
	assert.Equal(t, models.BookingStatusArrived, state.Status)
	assert.False(t, f.poller.Running())
	assert.False(t, state.PollerRunning)
	assert.True(t, state.ChannelOpen)
	assert.Equal(t, 1, f.source.fetchCount(), "no new baseline for a status change")

	opens, closes := f.channel.counts()
	assert.Equal(t, 1, opens)
	assert.Equal(t, 0, closes)

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusInProgress)})
	assert.False(t, f.poller.Running())
	assert.Equal(t, models.BookingStatusInProgress, f.ctrl.State().Status)

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
	assert.True(t, f.poller.Running())
	assert.Equal(t, 2, f.poller.starts)
}

func TestController_SessionTearsDownWhenBookingCompletes(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusCompleted)})

	state := f.ctrl.State()
	assert.Equal(t, models.SessionPhaseIdle, state.Phase)
	assert.Empty(t, state.BookingID)
	assert.Nil(t, state.Snapshot)
	assert.False(t, state.ChannelOpen)
	assert.False(t, f.poller.Running())

	opens, closes := f.channel.counts()
	assert.Equal(t, opens, closes)

	stats := f.ctrl.Stats()
	assert.Equal(t, int64(1), stats.SessionsOpened)
	assert.Equal(t, int64(1), stats.SessionsClosed)
	assert.Equal(t, stats.PollerStarts, stats.PollerStops)
}

func TestController_SwitchingBookingsNeverOverlaps(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	for _, id := range []string{"b1", "b2", "b3"} {
		f.source.set(id, fullSnapshot(id), nil)
	}

	sequence := [][]models.Booking{
		{booking("b1", models.BookingStatusEnRoute)},
		{booking("b2", models.BookingStatusEnRoute)},
		{booking("b2", models.BookingStatusArrived)},
		{booking("b1", models.BookingStatusCompleted), booking("b3", models.BookingStatusInProgress)},
		{booking("b1", models.BookingStatusEnRoute), booking("b3", models.BookingStatusInProgress)},
		{},
	}

	for _, list := range sequence {
		f.ctrl.Sync(context.Background(), list)

		opens, closes := f.channel.counts()
		if f.ctrl.State().Phase == models.SessionPhaseIdle {
			assert.Equal(t, opens, closes)
		} else {
			assert.Equal(t, closes+1, opens)
		}
		assert.LessOrEqual(t, f.poller.starts-f.poller.stops, 1)
	}

	assert.False(t, f.channel.overlap, "a subscription was opened while another was still open")
	assert.Equal(t, []string{"b1", "b2", "b3", "b1"}, f.channel.topics)
	assert.Equal(t, []string{"b1", "b2", "b3", "b1"}, f.source.fetched())
}

func TestController_LocationEventUpdatesOnlyLocation(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)
	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})

	before := f.ctrl.State().Snapshot
	require.NotNil(t, before)

	speed := 9.0
	ts := time.Date(2026, 3, 1, 9, 0, 5, 0, time.UTC)
	f.channel.latest()(models.LocationEvent{Lat: -33.9210, Lng: 18.4238, Speed: &speed, Timestamp: &ts})

	after := f.ctrl.State().Snapshot
	require.NotNil(t, after)
	require.NotNil(t, after.Location)
	assert.Equal(t, -33.9210, after.Location.Latitude)
	assert.Equal(t, 18.4238, after.Location.Longitude)
	assert.Equal(t, ts, after.Location.Timestamp)
	assert.Equal(t, before.Destination, after.Destination)
	assert.Equal(t, before.Cleaner, after.Cleaner)
	assert.Equal(t, before.BookingID, after.BookingID)

	// the previously published snapshot is not mutated
	assert.Equal(t, -33.9249, before.Location.Latitude)
}

func TestController_LocationEventOnEmptyBaseline(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", nil, errUpstream)

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusArrived)})

	state := f.ctrl.State()
	assert.Equal(t, models.SessionPhaseLive, state.Phase)
	require.NotNil(t, state.Snapshot)
	assert.Nil(t, state.Snapshot.Location)
	assert.True(t, state.ChannelOpen)

	f.channel.latest()(models.LocationEvent{Lat: 1, Lng: 2})

	state = f.ctrl.State()
	require.NotNil(t, state.Snapshot.Location)
	assert.Equal(t, "b1", state.Snapshot.BookingID)
	assert.Equal(t, 1.0, state.Snapshot.Location.Latitude)
	assert.False(t, state.Snapshot.Location.Timestamp.IsZero())
}

func TestController_BaselineFailureUsesLastKnown(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", nil, errUpstream)
	f.source.lastKnown["b1"] = fullSnapshot("b1")

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})

	state := f.ctrl.State()
	assert.Equal(t, models.SessionPhaseLive, state.Phase)
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, "cleaner-b1", state.Snapshot.Cleaner.ID)
	assert.True(t, state.PollerRunning)
}

func TestController_PollTick(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)
	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
	before := f.ctrl.State().Snapshot

	t.Run("failure keeps previous snapshot", func(t *testing.T) {
		f.source.set("b1", nil, errUpstream)
		f.poller.tick()

		assert.Equal(t, before, f.ctrl.State().Snapshot)
	})

	t.Run("success replaces the whole snapshot", func(t *testing.T) {
		replacement := &models.TrackingSnapshot{
			BookingID: "b1",
			Cleaner:   &models.CleanerInfo{ID: "cleaner-x"},
			Location:  &models.Location{Latitude: 5, Longitude: 6},
		}
		f.source.set("b1", replacement, nil)
		f.poller.tick()

		after := f.ctrl.State().Snapshot
		require.NotNil(t, after)
		assert.Equal(t, "cleaner-x", after.Cleaner.ID)
		assert.Equal(t, 5.0, after.Location.Latitude)
		assert.Nil(t, after.Destination)
	})
}

func TestController_OutOfOrderEvents(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 1, 0, time.UTC)
	t2 := time.Date(2026, 3, 1, 9, 0, 2, 0, time.UTC)

	tests := []struct {
		name      string
		monotonic bool
		wantLat   float64
		wantTime  time.Time
	}{
		{name: "last write wins", monotonic: false, wantLat: 1, wantTime: t1},
		{name: "monotonic guard keeps newest", monotonic: true, wantLat: 2, wantTime: t2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newControllerFixture(ControllerConfig{MonotonicLocations: tt.monotonic})
			f.source.set("b1", &models.TrackingSnapshot{BookingID: "b1"}, nil)
			f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})

			onEvent := f.channel.latest()
			onEvent(models.LocationEvent{Lat: 2, Lng: 2, Timestamp: &t2})
			onEvent(models.LocationEvent{Lat: 1, Lng: 1, Timestamp: &t1})

			loc := f.ctrl.State().Snapshot.Location
			require.NotNil(t, loc)
			assert.Equal(t, tt.wantLat, loc.Latitude)
			assert.Equal(t, tt.wantTime, loc.Timestamp)
		})
	}
}

func TestController_StaleBaselineIsDiscarded(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)
	f.source.set("b2", fullSnapshot("b2"), nil)
	gate := f.source.gate("b1")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
	}()

	require.Eventually(t, func() bool { return f.source.fetchCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, models.SessionPhaseLoading, f.ctrl.State().Phase)

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b2", models.BookingStatusEnRoute)})
	require.Equal(t, "b2", f.ctrl.State().BookingID)

	close(gate)
	wg.Wait()

	state := f.ctrl.State()
	assert.Equal(t, models.SessionPhaseLive, state.Phase)
	assert.Equal(t, "b2", state.BookingID)
	assert.Equal(t, "cleaner-b2", state.Snapshot.Cleaner.ID)
	assert.Equal(t, []string{"b2"}, f.channel.topics)
	assert.Equal(t, "b2", f.poller.bookingID)
	assert.Equal(t, int64(1), f.ctrl.Stats().StaleDiscarded)
}

func TestController_StaleEventsAndTicksAreDiscarded(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)
	f.source.set("b2", fullSnapshot("b2"), nil)

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
	oldEvent := f.channel.handler(0)
	f.poller.mu.Lock()
	oldTick := f.poller.onTick
	f.poller.mu.Unlock()

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b2", models.BookingStatusEnRoute)})
	before := f.ctrl.State().Snapshot

	oldEvent(models.LocationEvent{Lat: 10, Lng: 10})
	f.source.set("b1", &models.TrackingSnapshot{BookingID: "b1"}, nil)
	oldTick(context.Background(), "b1")

	assert.Equal(t, before, f.ctrl.State().Snapshot)
	assert.Equal(t, "b2", f.ctrl.State().BookingID)
	assert.Equal(t, int64(2), f.ctrl.Stats().StaleDiscarded)
}

func TestController_ChannelUnavailableFallsBackToPolling(t *testing.T) {
	tests := []struct {
		name    string
		channel *fakeChannel
	}{
		{name: "not configured", channel: &fakeChannel{available: false}},
		{name: "open fails", channel: &fakeChannel{available: true, openErr: tracking.ErrChannelUnavailable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.set("b1", fullSnapshot("b1"), nil)
			poller := &recordingPoller{}
			ctrl := NewController(source, tt.channel, poller, ControllerConfig{})

			ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})

			state := ctrl.State()
			assert.Equal(t, models.SessionPhaseLive, state.Phase)
			assert.False(t, state.ChannelOpen)
			assert.True(t, state.PollerRunning)

			ctrl.Dismiss()
			assert.Equal(t, models.SessionPhaseIdle, ctrl.State().Phase)
		})
	}

	t.Run("nil channel", func(t *testing.T) {
		ctrl := NewController(newFakeSource(), nil, &recordingPoller{}, ControllerConfig{})
		assert.False(t, ctrl.RealtimeAvailable())
	})
}

func TestController_DismissIsIdempotent(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)
	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})

	f.ctrl.Dismiss()
	f.ctrl.Dismiss()
	f.ctrl.Sync(context.Background(), nil)

	opens, closes := f.channel.counts()
	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, closes)
	assert.Equal(t, 1, f.poller.stops)
	assert.Equal(t, int64(1), f.ctrl.Stats().SessionsClosed)
	assert.Equal(t, models.SessionPhaseIdle, f.ctrl.State().Phase)
}

func TestController_RefreshSnapshot(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		f := newControllerFixture(ControllerConfig{})
		err := f.ctrl.RefreshSnapshot(context.Background())
		assert.True(t, errors.Is(err, tracking.ErrNoActiveSession))
	})

	t.Run("failure keeps state", func(t *testing.T) {
		f := newControllerFixture(ControllerConfig{})
		f.source.set("b1", fullSnapshot("b1"), nil)
		f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusArrived)})
		before := f.ctrl.State().Snapshot

		f.source.set("b1", nil, errUpstream)
		err := f.ctrl.RefreshSnapshot(context.Background())

		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, before, f.ctrl.State().Snapshot)
	})

	t.Run("success replaces snapshot", func(t *testing.T) {
		f := newControllerFixture(ControllerConfig{})
		f.source.set("b1", &models.TrackingSnapshot{BookingID: "b1"}, nil)
		f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusArrived)})

		f.source.set("b1", fullSnapshot("b1"), nil)
		require.NoError(t, f.ctrl.RefreshSnapshot(context.Background()))

		assert.Equal(t, "cleaner-b1", f.ctrl.State().Snapshot.Cleaner.ID)
		assert.Equal(t, 2, f.source.fetchCount())
	})
}

func TestController_Subscribe(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)

	var mu sync.Mutex
	var phases []models.SessionPhase
	unsubscribe := f.ctrl.Subscribe(func(state models.TrackingState) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, state.Phase)
	})

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
	f.ctrl.Sync(context.Background(), nil)

	unsubscribe()
	unsubscribe()
	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []models.SessionPhase{
		models.SessionPhaseLoading,
		models.SessionPhaseLive,
		models.SessionPhaseIdle,
	}, phases)
}

func TestController_SlowChannelOpenDoesNotBlockState(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	f.source.set("b1", fullSnapshot("b1"), nil)
	gate := make(chan struct{})
	f.channel.openGate = gate
	f.channel.opening = make(chan struct{}, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusArrived)})
	}()

	select {
	case <-f.channel.opening:
	case <-time.After(time.Second):
		t.Fatal("channel open never started")
	}

	stateCh := make(chan models.TrackingState, 1)
	go func() { stateCh <- f.ctrl.State() }()

	select {
	case state := <-stateCh:
		assert.Equal(t, models.SessionPhaseLive, state.Phase)
		assert.False(t, state.ChannelOpen)
		require.NotNil(t, state.Snapshot)
	case <-time.After(time.Second):
		t.Fatal("State blocked while the channel was connecting")
	}

	close(gate)
	wg.Wait()
	assert.True(t, f.ctrl.State().ChannelOpen)
}

func TestController_SupersededChannelOpenIsReleased(t *testing.T) {
	t.Run("dismissed while connecting", func(t *testing.T) {
		f := newControllerFixture(ControllerConfig{})
		f.source.set("b1", fullSnapshot("b1"), nil)
		gate := make(chan struct{})
		f.channel.openGate = gate
		f.channel.opening = make(chan struct{}, 1)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
		}()
		<-f.channel.opening

		f.ctrl.Dismiss()
		assert.Equal(t, models.SessionPhaseIdle, f.ctrl.State().Phase)

		close(gate)
		wg.Wait()

		opens, closes := f.channel.counts()
		assert.Equal(t, 1, opens)
		assert.Equal(t, 1, closes)
		assert.False(t, f.ctrl.State().ChannelOpen)
		assert.Equal(t, int64(1), f.ctrl.Stats().StaleDiscarded)
	})

	t.Run("switched while connecting", func(t *testing.T) {
		f := newControllerFixture(ControllerConfig{})
		f.source.set("b1", fullSnapshot("b1"), nil)
		f.source.set("b2", fullSnapshot("b2"), nil)
		gate := make(chan struct{})
		f.channel.openGate = gate
		f.channel.opening = make(chan struct{}, 2)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
		}()
		<-f.channel.opening

		wg.Add(1)
		go func() {
			defer wg.Done()
			f.ctrl.Sync(context.Background(), []models.Booking{booking("b2", models.BookingStatusEnRoute)})
		}()
		require.Eventually(t, func() bool { return f.ctrl.State().BookingID == "b2" }, time.Second, 5*time.Millisecond)

		close(gate)
		wg.Wait()

		state := f.ctrl.State()
		assert.Equal(t, "b2", state.BookingID)
		assert.True(t, state.ChannelOpen)
		assert.False(t, f.channel.overlap, "a subscription was opened while another was still open")
		assert.Equal(t, []string{"b1", "b2"}, f.channel.topics)
		opens, closes := f.channel.counts()
		assert.Equal(t, 2, opens)
		assert.Equal(t, 1, closes)
	})
}

func TestController_FinishedBookingForgetsLastKnownSnapshot(t *testing.T) {
	f := newControllerFixture(ControllerConfig{})
	for _, id := range []string{"b1", "b2", "b3", "b4"} {
		f.source.set(id, fullSnapshot(id), nil)
	}

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusEnRoute)})
	f.ctrl.Sync(context.Background(), []models.Booking{booking("b1", models.BookingStatusCompleted)})
	assert.Equal(t, []string{"b1"}, f.source.forgot())

	f.ctrl.Sync(context.Background(), []models.Booking{booking("b2", models.BookingStatusInProgress)})
	f.ctrl.Sync(context.Background(), []models.Booking{
		booking("b2", models.BookingStatusCancelled),
		booking("b3", models.BookingStatusEnRoute),
	})
	assert.Equal(t, []string{"b1", "b2"}, f.source.forgot())

	// dropped from the list without a final status: kept
	f.ctrl.Sync(context.Background(), []models.Booking{booking("b4", models.BookingStatusEnRoute)})
	f.ctrl.Sync(context.Background(), nil)
	assert.Equal(t, []string{"b1", "b2"}, f.source.forgot())
}
