package tracking

import "errors"

var (
	// ErrTransientFetch wraps a failed snapshot fetch; callers keep their previous state
	ErrTransientFetch = errors.New("tracking snapshot fetch failed")
	// ErrChannelUnavailable means no realtime transport is configured or reachable
	ErrChannelUnavailable = errors.New("live location channel unavailable")
	// ErrNoActiveSession is returned by snapshot refreshes while idle
	ErrNoActiveSession = errors.New("no active tracking session")
	// ErrSnapshotNotFound is returned by SnapshotRepo when nothing is stored
	ErrSnapshotNotFound = errors.New("tracking snapshot not found")
	// ErrInvalidBookingID rejects ids that cannot name a location topic
	ErrInvalidBookingID = errors.New("invalid booking id")
)
