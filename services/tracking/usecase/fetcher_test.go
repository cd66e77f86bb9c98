package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	"github.com/sparkclean/cleantrack/services/tracking"
	"github.com/sparkclean/cleantrack/services/tracking/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFetcher_Fetch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockBookingGW(ctrl)
	mockRepo := mocks.NewMockSnapshotRepo(ctrl)
	fetcher := NewSnapshotFetcher(mockGW, mockRepo, time.Hour)

	snapshot := fullSnapshot("b1")
	snapshot.BookingID = ""
	mockGW.EXPECT().GetTracking(gomock.Any(), "b1").Return(snapshot, nil)
	mockRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any(), time.Hour).
		DoAndReturn(func(ctx context.Context, s *models.TrackingSnapshot, ttl time.Duration) error {
			assert.Equal(t, "b1", s.BookingID)
			return nil
		})

	got, err := fetcher.Fetch(context.Background(), "b1")

	require.NoError(t, err)
	assert.Equal(t, "b1", got.BookingID)
	assert.Equal(t, "cleaner-b1", got.Cleaner.ID)
}

func TestSnapshotFetcher_Fetch_StoreFailureIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockBookingGW(ctrl)
	mockRepo := mocks.NewMockSnapshotRepo(ctrl)
	fetcher := NewSnapshotFetcher(mockGW, mockRepo, time.Hour)

	mockGW.EXPECT().GetTracking(gomock.Any(), "b1").Return(fullSnapshot("b1"), nil)
	mockRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	got, err := fetcher.Fetch(context.Background(), "b1")

	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSnapshotFetcher_Fetch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockBookingGW(ctrl)
	mockRepo := mocks.NewMockSnapshotRepo(ctrl)
	fetcher := NewSnapshotFetcher(mockGW, mockRepo, time.Hour)

	mockGW.EXPECT().GetTracking(gomock.Any(), "b1").Return(nil, errUpstream)

	got, err := fetcher.Fetch(context.Background(), "b1")

	assert.Nil(t, got)
	assert.True(t, errors.Is(err, tracking.ErrTransientFetch))
	assert.True(t, errors.Is(err, errUpstream))
}

func TestSnapshotFetcher_Fetch_EmptyResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockBookingGW(ctrl)
	fetcher := NewSnapshotFetcher(mockGW, nil, time.Hour)

	mockGW.EXPECT().GetTracking(gomock.Any(), "b1").Return(nil, nil)

	_, err := fetcher.Fetch(context.Background(), "b1")
	assert.True(t, errors.Is(err, tracking.ErrTransientFetch))
}

func TestSnapshotFetcher_LastKnown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockBookingGW(ctrl)
	mockRepo := mocks.NewMockSnapshotRepo(ctrl)

	mockRepo.EXPECT().GetSnapshot(gomock.Any(), "b1").Return(fullSnapshot("b1"), nil)
	got, err := NewSnapshotFetcher(mockGW, mockRepo, time.Hour).LastKnown(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.BookingID)

	_, err = NewSnapshotFetcher(mockGW, nil, time.Hour).LastKnown(context.Background(), "b1")
	assert.True(t, errors.Is(err, tracking.ErrSnapshotNotFound))
}

func TestSnapshotFetcher_Forget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGW := mocks.NewMockBookingGW(ctrl)
	mockRepo := mocks.NewMockSnapshotRepo(ctrl)

	mockRepo.EXPECT().DeleteSnapshot(gomock.Any(), "b1").Return(nil)
	assert.NoError(t, NewSnapshotFetcher(mockGW, mockRepo, time.Hour).Forget(context.Background(), "b1"))

	assert.NoError(t, NewSnapshotFetcher(mockGW, nil, time.Hour).Forget(context.Background(), "b1"))
}
