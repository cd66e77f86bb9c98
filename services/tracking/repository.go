package tracking

import (
	"context"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/sparkclean/cleantrack/services/tracking SnapshotRepo

// SnapshotRepo stores the last known tracking snapshot per booking
type SnapshotRepo interface {
	SaveSnapshot(ctx context.Context, snapshot *models.TrackingSnapshot, ttl time.Duration) error
	// GetSnapshot returns ErrSnapshotNotFound when nothing is stored
	GetSnapshot(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error)
	DeleteSnapshot(ctx context.Context, bookingID string) error
}
