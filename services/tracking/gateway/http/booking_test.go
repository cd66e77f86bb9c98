package gateway_http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	httpclient "github.com/sparkclean/cleantrack/internal/pkg/http"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(url string) *BookingHTTPGateway {
	client := httpclient.NewClient(httpclient.Config{
		BaseURL: url,
		Token:   "test-token",
		Timeout: 2 * time.Second,
		Retry:   retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2},
	}, logger.NewNopLogger())
	return NewBookingHTTPGateway(client)
}

func TestBookingHTTPGateway_ListBookings(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
	}{
		{
			name:    "bare array",
			body:    `[{"id":"b1","status":"EN_ROUTE"},{"id":"b2","status":"PENDING"}]`,
			wantIDs: []string{"b1", "b2"},
		},
		{
			name:    "bookings envelope",
			body:    `{"bookings":[{"id":"b3","status":"ARRIVED"}]}`,
			wantIDs: []string{"b3"},
		},
		{
			name:    "envelope without bookings",
			body:    `{"total":0}`,
			wantIDs: []string{},
		},
		{
			name:    "empty body",
			body:    ``,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/bookings", r.URL.Path)
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			bookings, err := newTestGateway(server.URL + "/api").ListBookings(context.Background())

			require.NoError(t, err)
			ids := make([]string, 0, len(bookings))
			for _, b := range bookings {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestBookingHTTPGateway_GetBooking(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "booking envelope", body: `{"booking":{"id":"b1","status":"ARRIVED","total_price":450}}`},
		{name: "bare booking", body: `{"id":"b1","status":"ARRIVED","total_price":450}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/bookings/b1", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			booking, err := newTestGateway(server.URL).GetBooking(context.Background(), "b1")

			require.NoError(t, err)
			assert.Equal(t, "b1", booking.ID)
			assert.Equal(t, models.BookingStatusArrived, booking.Status)
			assert.Equal(t, 450.0, booking.TotalPrice)
		})
	}
}

func TestBookingHTTPGateway_GetBooking_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Booking not found"}`))
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL).GetBooking(context.Background(), "missing")

	var apiErr *httpclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, "Booking not found", apiErr.Message)
}

func TestBookingHTTPGateway_GetTracking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/b1/tracking", r.URL.Path)
		w.Write([]byte(`{
			"booking_id": "b1",
			"cleaner": {"id": "c1", "firstName": "Thandi"},
			"location": {"latitude": -33.92, "longitude": 18.42, "heading": 180, "timestamp": "2026-03-01T09:00:00Z"},
			"destination": {"latitude": -33.91, "longitude": 18.43, "address": "12 Long Street"}
		}`))
	}))
	defer server.Close()

	snapshot, err := newTestGateway(server.URL).GetTracking(context.Background(), "b1")

	require.NoError(t, err)
	assert.Equal(t, "c1", snapshot.Cleaner.ID)
	require.NotNil(t, snapshot.Location)
	assert.Equal(t, -33.92, snapshot.Location.Latitude)
	require.NotNil(t, snapshot.Location.Heading)
	assert.Nil(t, snapshot.Location.Speed)
	assert.Equal(t, "12 Long Street", snapshot.Destination.Address)
}

func TestBookingHTTPGateway_GetTracking_SingleAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL).GetTracking(context.Background(), "b1")

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBookingHTTPGateway_Mutations(t *testing.T) {
	var lastMethod, lastPath string
	var lastBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMethod, lastPath = r.Method, r.URL.Path
		lastBody = nil
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &lastBody)
		}

		switch r.URL.Path {
		case "/bookings":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"booking":{"id":"b9","status":"PENDING"}}`))
		case "/bookings/b1/cancel":
			w.Write([]byte(`{"message":"Booking cancelled"}`))
		case "/bookings/b1":
			w.Write([]byte(`{"id":"b1","special_instructions":"Gate code 1234"}`))
		case "/bookings/find-cleaners":
			w.Write([]byte(`{"recommended":[{"id":"c1","score":0.92}],"others":[],"metadata":{"total_cleaners_found":1,"search_radius_km":10}}`))
		case "/bookings/b1/assign-cleaner":
			w.Write([]byte(`{"id":"b1","cleaner_id":"c1","status":"PENDING"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	ctx := context.Background()

	created, err := gw.CreateBooking(ctx, &models.CreateBookingRequest{ServiceID: "s1", ScheduledAt: "2026-03-01T10:00:00Z", LocationAddress: "12 Long Street"})
	require.NoError(t, err)
	assert.Equal(t, "b9", created.ID)
	assert.Equal(t, http.MethodPost, lastMethod)
	assert.Equal(t, "s1", lastBody["serviceId"])

	cancelled, err := gw.CancelBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Booking cancelled", cancelled.Message)
	assert.Equal(t, "/bookings/b1/cancel", lastPath)

	notes := "Gate code 1234"
	updated, err := gw.UpdateBooking(ctx, "b1", &models.UpdateBookingRequest{SpecialInstructions: &notes})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, lastMethod)
	assert.Equal(t, "Gate code 1234", updated.SpecialInstructions)
	assert.Equal(t, map[string]interface{}{"specialInstructions": "Gate code 1234"}, lastBody)

	matches, err := gw.FindCleaners(ctx, &models.FindCleanersRequest{ServiceID: "s1", LocationLat: -33.9, LocationLng: 18.4})
	require.NoError(t, err)
	require.Len(t, matches.Recommended, 1)
	assert.Equal(t, 1, matches.Metadata.TotalCleanersFound)

	assigned, err := gw.AssignCleaner(ctx, &models.AssignCleanerRequest{BookingID: "b1", CleanerID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", assigned.CleanerID)
	assert.True(t, assigned.OfferSent())
	assert.Equal(t, map[string]interface{}{"cleanerId": "c1"}, lastBody)
}

func TestBookingHTTPGateway_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expired"}`))
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL).ListBookings(context.Background())

	assert.True(t, errors.Is(err, httpclient.ErrUnauthorized))
	assert.Equal(t, "Token expired", httpclient.UserMessage(err, "fallback"))
}
