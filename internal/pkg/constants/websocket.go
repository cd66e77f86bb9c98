package constants

// WebSocket event types
const (
	// Common events
	EventError = "error"
	EventPing  = "ping"
	EventPong  = "pong"

	// Tracking events
	EventTrackingState = "tracking_state"
)

// WebSocket error codes
const (
	ErrorInvalidFormat    = "invalid_format"
	ErrorValidationFailed = "validation_failed"
	ErrorUnauthorized     = "unauthorized"
	ErrorInternalError    = "internal_error"
	ErrorRefreshFailed    = "refresh_failed"
	ErrorBookingNotFound  = "booking_not_found"
	ErrorUpstreamFailed   = "upstream_failed"
)
