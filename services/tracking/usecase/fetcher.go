package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/services/tracking"
)

// SnapshotSource is what the session controller needs to obtain snapshots
type SnapshotSource interface {
	Fetch(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error)
	LastKnown(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error)
	Forget(ctx context.Context, bookingID string) error
}

// SnapshotFetcher retrieves tracking snapshots from the booking API and keeps
// the last good one per booking in the snapshot store.
type SnapshotFetcher struct {
	bookingGW tracking.BookingGW
	repo      tracking.SnapshotRepo
	ttl       time.Duration
}

// NewSnapshotFetcher creates a fetcher. repo may be nil, in which case nothing is stored.
func NewSnapshotFetcher(bookingGW tracking.BookingGW, repo tracking.SnapshotRepo, ttl time.Duration) *SnapshotFetcher {
	return &SnapshotFetcher{
		bookingGW: bookingGW,
		repo:      repo,
		ttl:       ttl,
	}
}

// Fetch performs one tracking request. Any failure is wrapped in tracking.ErrTransientFetch.
func (f *SnapshotFetcher) Fetch(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error) {
	snapshot, err := f.bookingGW.GetTracking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking %s: %w", tracking.ErrTransientFetch, bookingID, err)
	}
	if snapshot == nil {
		return nil, fmt.Errorf("%w: booking %s: empty response", tracking.ErrTransientFetch, bookingID)
	}
	if snapshot.BookingID == "" {
		snapshot.BookingID = bookingID
	}

	if f.repo != nil {
		if err := f.repo.SaveSnapshot(ctx, snapshot, f.ttl); err != nil {
			logger.Debug("Failed to store last known snapshot",
				logger.BookingID(bookingID),
				logger.Err(err))
		}
	}
	return snapshot, nil
}

// LastKnown returns the most recent snapshot stored for the booking
func (f *SnapshotFetcher) LastKnown(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error) {
	if f.repo == nil {
		return nil, tracking.ErrSnapshotNotFound
	}
	return f.repo.GetSnapshot(ctx, bookingID)
}

// Forget removes the stored snapshot of a booking that will not be tracked again
func (f *SnapshotFetcher) Forget(ctx context.Context, bookingID string) error {
	if f.repo == nil {
		return nil
	}
	return f.repo.DeleteSnapshot(ctx, bookingID)
}
