package tracking

import (
	"context"

	"github.com/sparkclean/cleantrack/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/sparkclean/cleantrack/services/tracking TrackingUC,BookingUC

// TrackingUC is the runtime of the hosting track view
type TrackingUC interface {
	// view lifecycle
	Mount(ctx context.Context) error
	Dismiss()

	// manual pull-to-refresh; failures are *models.Notice
	Refresh(ctx context.Context) (models.TrackingState, error)

	State() models.TrackingState
	Bookings() []models.Booking
	Subscribe(listener func(models.TrackingState)) (unsubscribe func())
	RealtimeMode() string
}

// BookingUC wraps the booking API operations of the customer app
type BookingUC interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string) (*models.CancelBookingResponse, error)
	UpdateBooking(ctx context.Context, id string, req *models.UpdateBookingRequest) (*models.Booking, error)
	FindCleaners(ctx context.Context, req *models.FindCleanersRequest) (*models.FindCleanersResponse, error)
	AssignCleaner(ctx context.Context, req *models.AssignCleanerRequest) (*models.Booking, error)
}
