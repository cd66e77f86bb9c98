package usecase

import (
	"context"

	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/services/tracking"
)

// BookingOps forwards booking operations to the API and reloads the tracked
// booking list after every successful change.
type BookingOps struct {
	bookingGW tracking.BookingGW
	tracker   *Tracker
}

// NewBookingOps creates the booking usecase
func NewBookingOps(bookingGW tracking.BookingGW, tracker *Tracker) *BookingOps {
	return &BookingOps{
		bookingGW: bookingGW,
		tracker:   tracker,
	}
}

// ListBookings fetches the customer's bookings and refreshes the cached list
func (b *BookingOps) ListBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := b.bookingGW.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	b.tracker.apply(ctx, bookings)
	return bookings, nil
}

// GetBooking fetches one booking
func (b *BookingOps) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return b.bookingGW.GetBooking(ctx, id)
}

// CreateBooking creates a booking
func (b *BookingOps) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	booking, err := b.bookingGW.CreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}
	b.reloadAfter(ctx, "create", booking.ID)
	return booking, nil
}

// CancelBooking cancels a booking
func (b *BookingOps) CancelBooking(ctx context.Context, id string) (*models.CancelBookingResponse, error) {
	resp, err := b.bookingGW.CancelBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	b.reloadAfter(ctx, "cancel", id)
	return resp, nil
}

// UpdateBooking updates the mutable fields of a booking
func (b *BookingOps) UpdateBooking(ctx context.Context, id string, req *models.UpdateBookingRequest) (*models.Booking, error) {
	booking, err := b.bookingGW.UpdateBooking(ctx, id, req)
	if err != nil {
		return nil, err
	}
	b.reloadAfter(ctx, "update", id)
	return booking, nil
}

// FindCleaners asks the API for cleaners matching the request
func (b *BookingOps) FindCleaners(ctx context.Context, req *models.FindCleanersRequest) (*models.FindCleanersResponse, error) {
	return b.bookingGW.FindCleaners(ctx, req)
}

// AssignCleaner assigns the chosen cleaner to a booking
func (b *BookingOps) AssignCleaner(ctx context.Context, req *models.AssignCleanerRequest) (*models.Booking, error) {
	booking, err := b.bookingGW.AssignCleaner(ctx, req)
	if err != nil {
		return nil, err
	}
	b.reloadAfter(ctx, "assign_cleaner", req.BookingID)
	return booking, nil
}

func (b *BookingOps) reloadAfter(ctx context.Context, op, bookingID string) {
	if err := b.tracker.reload(ctx); err != nil {
		logger.Debug("Booking list reload after mutation failed",
			logger.String("operation", op),
			logger.BookingID(bookingID),
			logger.Err(err))
	}
}
