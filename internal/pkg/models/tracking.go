package models

import (
	"time"
)

// Location is a cleaner's reported position
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Heading   *float64  `json:"heading,omitempty"`
	Speed     *float64  `json:"speed,omitempty"` // meters per second
	Timestamp time.Time `json:"timestamp"`
}

// Destination is where the cleaner is heading, usually the booking address
type Destination struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// CleanerInfo is the display information of the assigned cleaner
type CleanerInfo struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
}

// TrackingSnapshot is a point-in-time tracking record for one booking.
// Location stays nil until the cleaner starts transmitting.
type TrackingSnapshot struct {
	BookingID   string       `json:"booking_id"`
	Cleaner     *CleanerInfo `json:"cleaner,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	Destination *Destination `json:"destination,omitempty"`
}

// WithLocation returns a copy of the snapshot whose location is replaced
func (s TrackingSnapshot) WithLocation(loc Location) TrackingSnapshot {
	s.Location = &loc
	return s
}

// LocationEvent is the payload pushed on a booking's live location topic
type LocationEvent struct {
	Lat       float64    `json:"lat" validate:"latitude"`
	Lng       float64    `json:"lng" validate:"longitude"`
	Heading   *float64   `json:"heading,omitempty"`
	Speed     *float64   `json:"speed,omitempty" validate:"omitempty,gte=0"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ToLocation converts the event, stamping receivedAt when the sender omitted a timestamp
func (e LocationEvent) ToLocation(receivedAt time.Time) Location {
	ts := receivedAt
	if e.Timestamp != nil {
		ts = *e.Timestamp
	}
	return Location{
		Latitude:  e.Lat,
		Longitude: e.Lng,
		Heading:   e.Heading,
		Speed:     e.Speed,
		Timestamp: ts,
	}
}

// SessionPhase is the tracking session controller state
type SessionPhase string

const (
	SessionPhaseIdle    SessionPhase = "idle"
	SessionPhaseLoading SessionPhase = "loading"
	SessionPhaseLive    SessionPhase = "live"
)

// TrackingProgress is derived display data for the track view
type TrackingProgress struct {
	DistanceKm float64 `json:"distance_km"`
	ETAMinutes int     `json:"eta_minutes"`
	Geohash    string  `json:"geohash"`
}

// TrackingState is the immutable view of the tracking session handed to the presentation layer
type TrackingState struct {
	Phase         SessionPhase      `json:"phase"`
	BookingID     string            `json:"booking_id,omitempty"`
	Status        BookingStatus     `json:"status,omitempty"`
	Snapshot      *TrackingSnapshot `json:"snapshot,omitempty"`
	ChannelOpen   bool              `json:"channel_open"`
	PollerRunning bool              `json:"poller_running"`
	Progress      *TrackingProgress `json:"progress,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// BookingsUpdatedAt is when the booking list was last loaded, nil before the first load
	BookingsUpdatedAt *time.Time `json:"bookings_updated_at,omitempty"`
}

// SessionStats counts session resource usage for instrumentation
type SessionStats struct {
	SessionsOpened int64 `json:"sessions_opened"`
	SessionsClosed int64 `json:"sessions_closed"`
	ChannelOpens   int64 `json:"channel_opens"`
	ChannelCloses  int64 `json:"channel_closes"`
	PollerStarts   int64 `json:"poller_starts"`
	PollerStops    int64 `json:"poller_stops"`
	StaleDiscarded int64 `json:"stale_discarded"`
}

// Notice is a user-facing dismissible message for a failed manual action
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (n *Notice) Error() string {
	return n.Message
}

func (n *Notice) Unwrap() error {
	return n.Err
}
