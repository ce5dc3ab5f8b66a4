package automation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/homedash-core/internal/device"
)

// AllRooms as an action's Room applies the action to every room.
const AllRooms = "*"

// Scene is a named, ordered list of actions.
type Scene struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description,omitempty"`
	Actions     []Action `json:"actions"`
}

// Action writes one property on every device it selects.
//
// Room is AllRooms, a room id, or empty for the room the scene is run in.
// DeviceType and Device filter the devices of each target room; when both
// are set both must match, and when neither is set nothing matches.
type Action struct {
	Room       string      `json:"room,omitempty"`
	DeviceType device.Type `json:"deviceType,omitempty"`
	Device     string      `json:"device,omitempty"`
	Property   Property    `json:"property"`
	Value      float64     `json:"value"`
}

// Property names the device field an action writes.
type Property string

// Properties understood by the command set.
const (
	PropertyStatus     Property = "status"
	PropertyDimmer     Property = "dimmer"
	PropertyRed        Property = "r"
	PropertyGreen      Property = "g"
	PropertyBlue       Property = "b"
	PropertyPosition   Property = "position"
	PropertyTargetTemp Property = "targetTemp"
)

// UnmarshalJSON accepts true/false as well as numbers for the value, since
// status is sometimes sent as a boolean.
func (a *Action) UnmarshalJSON(data []byte) error {
	type alias Action
	aux := struct {
		*alias
		Value json.RawMessage `json:"value"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	v, err := decodeValue(aux.Value)
	if err != nil {
		return err
	}
	a.Value = v
	return nil
}

// decodeValue reads a number, a boolean (1/0) or null (0).
func decodeValue(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return 0, nil
	case bytes.Equal(raw, []byte("true")):
		return 1, nil
	case bytes.Equal(raw, []byte("false")):
		return 0, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: value %s is not a number", ErrInvalidAction, raw)
	}
	return v, nil
}

// DeepCopy returns an independent copy of the scene.
func (s *Scene) DeepCopy() *Scene {
	if s == nil {
		return nil
	}
	cpy := *s
	if s.Actions != nil {
		cpy.Actions = make([]Action, len(s.Actions))
		copy(cpy.Actions, s.Actions)
	}
	return &cpy
}

func copyScenes(in []Scene) []Scene {
	out := make([]Scene, len(in))
	for i := range in {
		out[i] = *in[i].DeepCopy()
	}
	return out
}

func copyRoomScenes(in map[string][]Scene) map[string][]Scene {
	out := make(map[string][]Scene, len(in))
	for room, scenes := range in {
		out[room] = copyScenes(scenes)
	}
	return out
}

// Scope says which catalog a scene belongs to.
type Scope string

// Catalog scopes.
const (
	ScopeGlobal Scope = "global"
	ScopeRoom   Scope = "room"
)

// Entry is a scene as listed for display: predefined scenes first, then
// user scenes, with User marking the deletable ones.
type Entry struct {
	Scene
	User bool `json:"user"`
}
