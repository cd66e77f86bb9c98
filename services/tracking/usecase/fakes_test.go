package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/services/tracking"
)

var errUpstream = errors.New("upstream unavailable")

// fakeSource serves snapshots per booking; a gate blocks Fetch until closed
type fakeSource struct {
	mu        sync.Mutex
	snapshots map[string]*models.TrackingSnapshot
	errs      map[string]error
	gates     map[string]chan struct{}
	lastKnown map[string]*models.TrackingSnapshot
	fetches   []string
	forgotten []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		snapshots: make(map[string]*models.TrackingSnapshot),
		errs:      make(map[string]error),
		gates:     make(map[string]chan struct{}),
		lastKnown: make(map[string]*models.TrackingSnapshot),
	}
}

func (f *fakeSource) set(id string, snap *models.TrackingSnapshot, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[id] = snap
	f.errs[id] = err
}

func (f *fakeSource) gate(id string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[id] = g
	return g
}

func (f *fakeSource) Fetch(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, bookingID)
	gate := f.gates[bookingID]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[bookingID]; err != nil {
		return nil, err
	}
	snap, ok := f.snapshots[bookingID]
	if !ok {
		return nil, tracking.ErrTransientFetch
	}
	out := *snap
	return &out, nil
}

func (f *fakeSource) LastKnown(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if snap, ok := f.lastKnown[bookingID]; ok {
		out := *snap
		return &out, nil
	}
	return nil, tracking.ErrSnapshotNotFound
}

func (f *fakeSource) Forget(ctx context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lastKnown, bookingID)
	f.forgotten = append(f.forgotten, bookingID)
	return nil
}

func (f *fakeSource) forgot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.forgotten...)
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func (f *fakeSource) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetches...)
}

// fakeChannel counts opens and closes and records any moment where two
// subscriptions were open at once.
type fakeChannel struct {
	mu        sync.Mutex
	available bool
	openErr   error
	openGate  chan struct{} // when set, Open waits for it to close
	opening   chan struct{} // when set, receives once per Open call
	opens     int
	closes    int
	overlap   bool
	topics    []string
	handlers  []func(models.LocationEvent)
}

type fakeSub struct {
	ch     *fakeChannel
	closed bool
}

func (s *fakeSub) Unsubscribe() error {
	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.ch.closes++
	return nil
}

func (f *fakeChannel) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeChannel) Open(ctx context.Context, bookingID string, onEvent func(models.LocationEvent)) (tracking.Subscription, error) {
	f.mu.Lock()
	gate, opening := f.openGate, f.opening
	f.mu.Unlock()
	if opening != nil {
		opening <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	if f.opens != f.closes {
		f.overlap = true
	}
	f.opens++
	f.topics = append(f.topics, bookingID)
	f.handlers = append(f.handlers, onEvent)
	return &fakeSub{ch: f}, nil
}

func (f *fakeChannel) counts() (opens, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens, f.closes
}

func (f *fakeChannel) handler(i int) func(models.LocationEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handlers[i]
}

func (f *fakeChannel) latest() func(models.LocationEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handlers[len(f.handlers)-1]
}

// recordingPoller records starts and stops; ticks are fired by the test
type recordingPoller struct {
	mu        sync.Mutex
	running   bool
	bookingID string
	interval  time.Duration
	onTick    TickFunc
	starts    int
	stops     int
}

func (p *recordingPoller) Start(bookingID string, interval time.Duration, onTick TickFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	p.bookingID = bookingID
	p.interval = interval
	p.onTick = onTick
	p.starts++
}

func (p *recordingPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		p.stops++
	}
	p.running = false
}

func (p *recordingPoller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// tick runs the last registered tick func synchronously
func (p *recordingPoller) tick() {
	p.mu.Lock()
	fn, id := p.onTick, p.bookingID
	p.mu.Unlock()
	fn(context.Background(), id)
}

func booking(id string, status models.BookingStatus) models.Booking {
	return models.Booking{ID: id, Status: status}
}

func fullSnapshot(id string) *models.TrackingSnapshot {
	heading := 45.0
	return &models.TrackingSnapshot{
		BookingID: id,
		Cleaner:   &models.CleanerInfo{ID: "cleaner-" + id, FirstName: "Thandi", LastName: "Mokoena", Rating: 4.8},
		Location: &models.Location{
			Latitude:  -33.9249,
			Longitude: 18.4241,
			Heading:   &heading,
			Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		Destination: &models.Destination{Latitude: -33.9180, Longitude: 18.4233, Address: "12 Long Street"},
	}
}

type controllerFixture struct {
	source  *fakeSource
	channel *fakeChannel
	poller  *recordingPoller
	ctrl    *Controller
}

func newControllerFixture(cfg ControllerConfig) *controllerFixture {
	f := &controllerFixture{
		source:  newFakeSource(),
		channel: &fakeChannel{available: true},
		poller:  &recordingPoller{},
	}
	f.ctrl = NewController(f.source, f.channel, f.poller, cfg)
	return f
}
