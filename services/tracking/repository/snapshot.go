package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sparkclean/cleantrack/internal/pkg/constants"
	"github.com/sparkclean/cleantrack/internal/pkg/database"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/services/tracking"
)

// SnapshotRepo keeps the last known tracking snapshot per booking in Redis
type SnapshotRepo struct {
	redisClient *database.RedisClient
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(redisClient *database.RedisClient) *SnapshotRepo {
	return &SnapshotRepo{
		redisClient: redisClient,
	}
}

// SaveSnapshot stores the snapshot as JSON, expiring after ttl (0 keeps it forever)
func (r *SnapshotRepo) SaveSnapshot(ctx context.Context, snapshot *models.TrackingSnapshot, ttl time.Duration) error {
	if snapshot == nil || snapshot.BookingID == "" {
		return fmt.Errorf("snapshot without booking id")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := fmt.Sprintf(constants.KeyTrackingSnapshot, snapshot.BookingID)
	if err := r.redisClient.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads the stored snapshot of a booking
func (r *SnapshotRepo) GetSnapshot(ctx context.Context, bookingID string) (*models.TrackingSnapshot, error) {
	key := fmt.Sprintf(constants.KeyTrackingSnapshot, bookingID)
	data, err := r.redisClient.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return nil, tracking.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot models.TrackingSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// DeleteSnapshot removes the stored snapshot of a booking
func (r *SnapshotRepo) DeleteSnapshot(ctx context.Context, bookingID string) error {
	key := fmt.Sprintf(constants.KeyTrackingSnapshot, bookingID)
	if err := r.redisClient.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
