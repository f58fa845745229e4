package schedule

import "errors"

// Custom schedule engine errors
var (
	// ErrNoProgramming indicates a channel has no schedule or an empty slot
	// list. Callers render an empty state, never an error.
	ErrNoProgramming = errors.New("no programming available")

	// ErrScheduleNotFound indicates no schedule has been generated yet for a
	// channel. The reshuffle scheduler treats this the same as staleness.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrChannelNotFound indicates the requested channel does not exist or is
	// not currently active
	ErrChannelNotFound = errors.New("channel not found")

	// ErrReshuffleInFlight indicates a regeneration is already running.
	// Informational; the in-flight run's result satisfies the caller.
	ErrReshuffleInFlight = errors.New("reshuffle already in progress")
)

// IsNoProgramming checks if the error is a no programming error
func IsNoProgramming(err error) bool {
	return errors.Is(err, ErrNoProgramming)
}

// IsScheduleNotFound checks if the error is a schedule not found error
func IsScheduleNotFound(err error) bool {
	return errors.Is(err, ErrScheduleNotFound)
}

// IsChannelNotFound checks if the error is a channel not found error
func IsChannelNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}
