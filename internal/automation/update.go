package automation

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/homedash-core/internal/device"
)

// Update is a single device change pushed by the home controller.
type Update struct {
	RoomID     string   `json:"roomId"`
	DeviceName string   `json:"deviceName"`
	Property   Property `json:"property"`
	Value      float64  `json:"value"`
}

// UnmarshalJSON accepts booleans for the value, like Action.
func (u *Update) UnmarshalJSON(data []byte) error {
	type alias Update
	aux := struct {
		*alias
		Value json.RawMessage `json:"value"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v, err := decodeValue(aux.Value)
	if err != nil {
		return err
	}
	u.Value = v
	return nil
}

// ApplyUpdate writes a pushed device change to the Registry through the
// scene command set and returns a copy of the changed device. Unknown
// rooms and devices yield device.ErrRoomNotFound and
// device.ErrDeviceNotFound; a property the device does not carry yields
// device.ErrWrongDeviceType.
func (e *Engine) ApplyUpdate(u Update) (device.Device, error) {
	cmd, err := ParseCommand(u.Property, u.Value)
	if err != nil {
		return nil, err
	}

	var (
		changed  device.Device
		applyErr error
	)
	e.devices.Update(func(tx *device.Tx) {
		room := tx.Room(u.RoomID)
		if room == nil {
			applyErr = fmt.Errorf("%w: %s", device.ErrRoomNotFound, u.RoomID)
			return
		}
		d := room.Find(u.DeviceName)
		if d == nil {
			applyErr = fmt.Errorf("%w: %s/%s", device.ErrDeviceNotFound, u.RoomID, u.DeviceName)
			return
		}
		if !cmd.Apply(room, d) {
			applyErr = fmt.Errorf("%w: %s on %s", device.ErrWrongDeviceType, u.Property, d.Type())
			return
		}
		changed = device.Clone(d)
	})
	if applyErr != nil {
		return nil, applyErr
	}

	e.logger.Debug("device update applied",
		"room_id", u.RoomID,
		"device", u.DeviceName,
		"property", u.Property,
		"value", u.Value,
	)
	return changed, nil
}
