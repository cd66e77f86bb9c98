package tracking

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/constants"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/internal/pkg/validation"
)

// DecodeLocationEvent parses and validates a raw location payload.
// A missing timestamp is filled with receivedAt.
func DecodeLocationEvent(data []byte, receivedAt time.Time) (models.LocationEvent, error) {
	var event models.LocationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal location event: %w", err)
	}
	if err := validation.Struct(event); err != nil {
		return event, fmt.Errorf("invalid location event: %w", err)
	}
	if event.Timestamp == nil {
		ts := receivedAt
		event.Timestamp = &ts
	}
	return event, nil
}

// LocationTopic returns the live location subject of a booking. The id must
// form a single subject token: no separators, wildcards or whitespace.
func LocationTopic(bookingID string) (string, error) {
	if bookingID == "" || strings.ContainsAny(bookingID, ".*> \t\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidBookingID, bookingID)
	}
	return fmt.Sprintf(constants.SubjectBookingLocation, bookingID), nil
}
