package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_TicksUntilStopped(t *testing.T) {
	p := NewPoller(nil)
	var ticks int32
	var lastID atomic.Value

	p.Start("b1", 10*time.Millisecond, func(ctx context.Context, bookingID string) {
		lastID.Store(bookingID)
		atomic.AddInt32(&ticks, 1)
	})
	require.True(t, p.Running())

	require.Eventually(t, func() bool { return atomic.LoadInt32(&ticks) >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "b1", lastID.Load())

	p.Stop()
	assert.False(t, p.Running())

	// let any tick spawned before Stop finish, then make sure nothing else fires
	time.Sleep(20 * time.Millisecond)
	stopped := atomic.LoadInt32(&ticks)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&ticks))
}

func TestPoller_SkipsWhileTickInFlight(t *testing.T) {
	p := NewPoller(nil)
	release := make(chan struct{})
	var calls int32

	p.Start("b1", 5*time.Millisecond, func(ctx context.Context, bookingID string) {
		atomic.AddInt32(&calls, 1)
		<-release
	})

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "overlapping ticks must be skipped")

	close(release)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) > 1 }, time.Second, time.Millisecond)
	p.Stop()
}

func TestPoller_StopDoesNotWaitForInFlightTick(t *testing.T) {
	p := NewPoller(nil)
	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{}, 1)

	p.Start("b1", 5*time.Millisecond, func(ctx context.Context, bookingID string) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})
	<-started

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on an in-flight tick")
	}
}

func TestPoller_RestartReplacesRun(t *testing.T) {
	p := NewPoller(nil)
	var b1, b2 int32

	p.Start("b1", 5*time.Millisecond, func(ctx context.Context, bookingID string) { atomic.AddInt32(&b1, 1) })
	p.Start("b2", 5*time.Millisecond, func(ctx context.Context, bookingID string) { atomic.AddInt32(&b2, 1) })

	require.Eventually(t, func() bool { return atomic.LoadInt32(&b2) >= 2 }, time.Second, time.Millisecond)
	p.Stop()

	time.Sleep(20 * time.Millisecond)
	frozen := atomic.LoadInt32(&b1)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, atomic.LoadInt32(&b1))
}

func TestPoller_StopWhenIdle(t *testing.T) {
	p := NewPoller(nil)
	assert.NotPanics(t, func() {
		p.Stop()
		p.Stop()
	})
	assert.False(t, p.Running())
}
