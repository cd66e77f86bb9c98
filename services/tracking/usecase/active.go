package usecase

import (
	"sync"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/models"
)

// ActiveBooking returns the first booking, in source order, whose status is
// EN_ROUTE, ARRIVED or IN_PROGRESS.
func ActiveBooking(bookings []models.Booking) (models.Booking, bool) {
	for _, b := range bookings {
		if b.Status.IsTrackable() {
			return b, true
		}
	}
	return models.Booking{}, false
}

// BookingListCache holds the customer's booking list as last returned by the API.
// The list is only ever replaced wholesale.
type BookingListCache struct {
	mu        sync.RWMutex
	bookings  []models.Booking
	active    models.Booking
	hasActive bool
	updatedAt time.Time
}

// NewBookingListCache creates an empty cache
func NewBookingListCache() *BookingListCache {
	return &BookingListCache{}
}

// Replace swaps in a new list and returns the active booking derived from it
func (c *BookingListCache) Replace(bookings []models.Booking) (models.Booking, bool) {
	list := make([]models.Booking, len(bookings))
	copy(list, bookings)
	active, ok := ActiveBooking(list)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.bookings = list
	c.active, c.hasActive = active, ok
	c.updatedAt = time.Now()
	return active, ok
}

// List returns a copy of the cached bookings
func (c *BookingListCache) List() []models.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]models.Booking, len(c.bookings))
	copy(list, c.bookings)
	return list
}

// Active returns the active booking of the cached list
func (c *BookingListCache) Active() (models.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active, c.hasActive
}

// UpdatedAt returns when the list was last replaced, zero if never
func (c *BookingListCache) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}
