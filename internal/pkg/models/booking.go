package models

import (
	"time"
)

// BookingStatus represents the lifecycle status of a cleaning booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusMatched    BookingStatus = "MATCHED"
	BookingStatusAccepted   BookingStatus = "ACCEPTED"
	BookingStatusEnRoute    BookingStatus = "EN_ROUTE"
	BookingStatusArrived    BookingStatus = "ARRIVED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// IsTrackable reports whether the status belongs to an in-progress service leg
func (s BookingStatus) IsTrackable() bool {
	switch s {
	case BookingStatusEnRoute, BookingStatusArrived, BookingStatusInProgress:
		return true
	}
	return false
}

// IsFinished reports whether the booking reached a final status
func (s BookingStatus) IsFinished() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Service is the catalog entry a booking was made for
type Service struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	DurationHours float64 `json:"duration_hours"`
	Active        bool    `json:"active"`
}

// Booking represents a customer's cleaning booking as returned by the booking API
type Booking struct {
	ID                  string        `json:"id"`
	CustomerID          string        `json:"user_id"`
	CleanerID           string        `json:"cleaner_id,omitempty"`
	ServiceID           string        `json:"service_id"`
	ScheduledAt         time.Time     `json:"scheduled_at"`
	LocationAddress     string        `json:"location_address,omitempty"`
	LocationLat         float64       `json:"location_lat,omitempty"`
	LocationLng         float64       `json:"location_lng,omitempty"`
	SpecialInstructions string        `json:"special_instructions,omitempty"`
	Status              BookingStatus `json:"status"`
	TotalPrice          float64       `json:"total_price"`
	CreatedAt           time.Time     `json:"created_at"`
	Service             *Service      `json:"service,omitempty"`
}

// OfferSent reports whether a cleaner was offered the job but has not answered yet
func (b Booking) OfferSent() bool {
	return b.Status == BookingStatusPending && b.CleanerID != ""
}

// CreateBookingRequest is the payload for creating a booking
type CreateBookingRequest struct {
	ServiceID       string  `json:"serviceId" validate:"required"`
	ScheduledAt     string  `json:"scheduledAt" validate:"required"`
	LocationAddress string  `json:"locationAddress" validate:"required"`
	LocationLat     float64 `json:"locationLat" validate:"latitude"`
	LocationLng     float64 `json:"locationLng" validate:"longitude"`
	Notes           string  `json:"notes,omitempty"`
	ASAP            bool    `json:"asap,omitempty"`
}

// UpdateBookingRequest carries the mutable booking fields
type UpdateBookingRequest struct {
	ScheduledAt         *string `json:"scheduledAt,omitempty"`
	LocationAddress     *string `json:"locationAddress,omitempty"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}

// FindCleanersRequest asks the booking API for cleaners near a location
type FindCleanersRequest struct {
	ServiceID   string  `json:"serviceId" validate:"required"`
	LocationLat float64 `json:"locationLat" validate:"latitude"`
	LocationLng float64 `json:"locationLng" validate:"longitude"`
	ScheduledAt string  `json:"scheduledAt,omitempty"`
}

// CleanerScoreBreakdown explains how a cleaner match was scored
type CleanerScoreBreakdown struct {
	Proximity   float64 `json:"proximity"`
	Experience  float64 `json:"experience"`
	Retention   float64 `json:"retention"`
	Reliability float64 `json:"reliability"`
}

// CleanerMatch is one candidate returned by find-cleaners
type CleanerMatch struct {
	ID                  string                `json:"id"`
	DistanceMeters      float64               `json:"distance_meters"`
	Rating              float64               `json:"rating"`
	VehicleType         string                `json:"vehicle_type"`
	Score               float64               `json:"score"`
	ScoreBreakdown      CleanerScoreBreakdown `json:"score_breakdown"`
	HasPreviousBookings bool                  `json:"has_previous_bookings"`
	CancellationRate    float64               `json:"cancellation_rate"`
	FirstName           string                `json:"firstName,omitempty"`
	LastName            string                `json:"lastName,omitempty"`
	Phone               string                `json:"phone,omitempty"`
	ReviewsCount        int                   `json:"reviews_count,omitempty"`
}

// FindCleanersResponse groups recommended and other cleaner matches
type FindCleanersResponse struct {
	Recommended []CleanerMatch `json:"recommended"`
	Others      []CleanerMatch `json:"others"`
	Metadata    struct {
		TotalCleanersFound int     `json:"total_cleaners_found"`
		SearchRadiusKm     float64 `json:"search_radius_km"`
		CustomerLocation   struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"customer_location"`
	} `json:"metadata"`
}

// AssignCleanerRequest assigns a chosen cleaner to a booking
type AssignCleanerRequest struct {
	BookingID string `json:"-" param:"id"`
	CleanerID string `json:"cleanerId" validate:"required"`
}

// CancelBookingResponse is the acknowledgement returned on cancellation
type CancelBookingResponse struct {
	Message string `json:"message"`
}
