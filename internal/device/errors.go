package device

import "errors"

// Domain errors for the device package.
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // stale UI reference
//	}
var (
	// ErrRoomNotFound is returned when a room id is not in the Registry.
	ErrRoomNotFound = errors.New("device: room not found")

	// ErrDeviceNotFound is returned when no device in the room has the name.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrWrongDeviceType is returned when an operation does not apply to the
	// device's type, for example dimming a plain light.
	ErrWrongDeviceType = errors.New("device: operation not supported by device type")

	// ErrInvalidDirection is returned for a blind direction other than open or close.
	ErrInvalidDirection = errors.New("device: invalid blind direction")

	// ErrInvalidType is returned when decoding an unknown device type.
	ErrInvalidType = errors.New("device: invalid type")

	// ErrInvalidDevice is returned when a decoded device is malformed.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidConfig is returned when decoding an unknown system mode.
	ErrInvalidConfig = errors.New("device: invalid system config")
)
