package gateway_http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	httpclient "github.com/sparkclean/cleantrack/internal/pkg/http"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
)

// BookingHTTPGateway talks to the booking REST API
type BookingHTTPGateway struct {
	client *httpclient.Client
}

// NewBookingHTTPGateway creates a new booking API gateway
func NewBookingHTTPGateway(client *httpclient.Client) *BookingHTTPGateway {
	return &BookingHTTPGateway{
		client: client,
	}
}

// ListBookings returns the customer's bookings in API order.
// The API answers either a bare array or {"bookings": [...]}.
func (g *BookingHTTPGateway) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var raw json.RawMessage
	if err := g.client.GetJSON(ctx, "/bookings", &raw); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := []models.Booking{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return bookings, nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &bookings); err != nil {
			return nil, fmt.Errorf("failed to decode bookings: %w", err)
		}
		return bookings, nil
	}

	var envelope struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	if envelope.Bookings != nil {
		bookings = envelope.Bookings
	}
	return bookings, nil
}

// GetBooking fetches one booking
func (g *BookingHTTPGateway) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var raw json.RawMessage
	if err := g.client.GetJSON(ctx, bookingPath(id), &raw); err != nil {
		return nil, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return decodeBooking(raw)
}

// GetTracking fetches the tracking snapshot of a booking with a single attempt
func (g *BookingHTTPGateway) GetTracking(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error) {
	var snapshot models.TrackingSnapshot
	if err := g.client.GetJSON(ctx, bookingPath(bookingID)+"/tracking", &snapshot, httpclient.NoRetry()); err != nil {
		return nil, fmt.Errorf("failed to get tracking for booking %s: %w", bookingID, err)
	}
	return &snapshot, nil
}

// CreateBooking creates a booking
func (g *BookingHTTPGateway) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	var raw json.RawMessage
	if err := g.client.PostJSON(ctx, "/bookings", req, &raw, httpclient.NoRetry()); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return decodeBooking(raw)
}

// CancelBooking cancels a booking
func (g *BookingHTTPGateway) CancelBooking(ctx context.Context, id string) (*models.CancelBookingResponse, error) {
	var resp models.CancelBookingResponse
	if err := g.client.PostJSON(ctx, bookingPath(id)+"/cancel", nil, &resp, httpclient.NoRetry()); err != nil {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}
	return &resp, nil
}

// UpdateBooking patches the mutable fields of a booking
func (g *BookingHTTPGateway) UpdateBooking(ctx context.Context, id string, req *models.UpdateBookingRequest) (*models.Booking, error) {
	var raw json.RawMessage
	if err := g.client.PatchJSON(ctx, bookingPath(id), req, &raw); err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	return decodeBooking(raw)
}

// FindCleaners asks the API for cleaners able to take the job
func (g *BookingHTTPGateway) FindCleaners(ctx context.Context, req *models.FindCleanersRequest) (*models.FindCleanersResponse, error) {
	var resp models.FindCleanersResponse
	if err := g.client.PostJSON(ctx, "/bookings/find-cleaners", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to find cleaners: %w", err)
	}
	return &resp, nil
}

// AssignCleaner assigns a cleaner to a booking
func (g *BookingHTTPGateway) AssignCleaner(ctx context.Context, req *models.AssignCleanerRequest) (*models.Booking, error) {
	body := map[string]string{"cleanerId": req.CleanerID}

	var raw json.RawMessage
	if err := g.client.PostJSON(ctx, bookingPath(req.BookingID)+"/assign-cleaner", body, &raw, httpclient.NoRetry()); err != nil {
		return nil, fmt.Errorf("failed to assign cleaner to booking %s: %w", req.BookingID, err)
	}
	return decodeBooking(raw)
}

func bookingPath(id string) string {
	return "/bookings/" + url.PathEscape(id)
}

// decodeBooking accepts {"booking": {...}} or a bare booking object
func decodeBooking(raw json.RawMessage) (*models.Booking, error) {
	var envelope struct {
		Booking *models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode booking: %w", err)
	}
	if envelope.Booking != nil {
		return envelope.Booking, nil
	}

	var booking models.Booking
	if err := json.Unmarshal(raw, &booking); err != nil {
		return nil, fmt.Errorf("failed to decode booking: %w", err)
	}
	return &booking, nil
}
