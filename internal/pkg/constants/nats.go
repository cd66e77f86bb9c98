package constants

// Realtime subjects
const (
	// SubjectBookingLocation is the per-booking live location topic, shared by
	// the NATS and NSQ transports. Format: tracking.booking.{booking_id}.location
	SubjectBookingLocation = "tracking.booking.%s.location"
)

// Realtime transports
const (
	TransportNATS = "nats"
	TransportNSQ  = "nsq"
)
