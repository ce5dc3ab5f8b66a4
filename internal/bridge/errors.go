package bridge

import "errors"

// Domain errors for the bridge package.
var (
	// ErrNotStarted is returned when publishing before Start.
	ErrNotStarted = errors.New("bridge: not started")

	// ErrInvalidTopic is returned for a state topic that does not name a
	// room and a device.
	ErrInvalidTopic = errors.New("bridge: invalid state topic")

	// ErrInvalidPayload is returned when a state payload cannot be decoded.
	ErrInvalidPayload = errors.New("bridge: invalid state payload")
)
