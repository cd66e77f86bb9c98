package constants

// Redis key formats
const (
	KeyTrackingSnapshot = "tracking:snapshot:%s" // Format: tracking:snapshot:{booking_id}
)
