package tracking

import (
	"context"

	"github.com/sparkclean/cleantrack/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/sparkclean/cleantrack/services/tracking BookingGW,LocationChannel,Subscription

// BookingGW is the booking REST API
type BookingGW interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)

	// GetTracking performs exactly one request, no retries
	GetTracking(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error)

	CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string) (*models.CancelBookingResponse, error)
	UpdateBooking(ctx context.Context, id string, req *models.UpdateBookingRequest) (*models.Booking, error)
	FindCleaners(ctx context.Context, req *models.FindCleanersRequest) (*models.FindCleanersResponse, error)
	AssignCleaner(ctx context.Context, req *models.AssignCleanerRequest) (*models.Booking, error)
}

// Subscription is an open live location subscription
type Subscription interface {
	// Unsubscribe releases the subscription. Calling it more than once is a no-op.
	Unsubscribe() error
}

// LocationChannel delivers live location events for one booking at a time.
// onEvent runs on the transport's delivery goroutine and receives only valid events.
type LocationChannel interface {
	Available() bool
	Open(ctx context.Context, bookingID string, onEvent func(models.LocationEvent)) (Subscription, error)
}
