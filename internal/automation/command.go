package automation

import (
	"fmt"
	"math"

	"github.com/nerrad567/homedash-core/internal/device"
)

// Command is the typed form of an action's property write. The set is
// closed: SetStatus, SetDimmer, SetColor, SetPosition and SetTargetTemp.
type Command interface {
	// Apply writes the value to d, a device of room. It reports false and
	// changes nothing when d's type does not carry the property.
	Apply(room *device.Room, d device.Device) bool

	command()
}

// SetStatus switches a light, dimmer or RGB light on or off. The
// brightness is left as it is.
type SetStatus struct{ On bool }

// SetDimmer writes the brightness of a dimmer or RGB light, clamped to
// [0,255]. The status is left as it is.
type SetDimmer struct{ Level int }

// Channel is one component of an RGB colour.
type Channel byte

// Colour channels.
const (
	ChannelR Channel = 'r'
	ChannelG Channel = 'g'
	ChannelB Channel = 'b'
)

// SetColor writes one channel of an RGB light, clamped to [0,255].
type SetColor struct {
	Channel Channel
	Value   int
}

// SetPosition moves a blind to a position, clamped to [0,100].
type SetPosition struct{ Position float64 }

// SetTargetTemp sets the target temperature of the room a heating device
// belongs to, clamped to [15,25] and rounded to one decimal.
type SetTargetTemp struct{ Target float64 }

func (SetStatus) command()     {}
func (SetDimmer) command()     {}
func (SetColor) command()      {}
func (SetPosition) command()   {}
func (SetTargetTemp) command() {}

// Apply implements Command.
func (c SetStatus) Apply(_ *device.Room, d device.Device) bool {
	s, ok := d.(device.Switchable)
	if ok {
		s.SetOn(c.On)
	}
	return ok
}

// Apply implements Command.
func (c SetDimmer) Apply(_ *device.Room, d device.Device) bool {
	dm, ok := d.(device.Dimmable)
	if ok {
		dm.SetLevel(c.Level)
	}
	return ok
}

// Apply implements Command.
func (c SetColor) Apply(_ *device.Room, d device.Device) bool {
	cl, ok := d.(device.Colorable)
	if !ok {
		return false
	}
	rgb := cl.Color()
	switch c.Channel {
	case ChannelR:
		rgb.R = c.Value
	case ChannelG:
		rgb.G = c.Value
	case ChannelB:
		rgb.B = c.Value
	default:
		return false
	}
	cl.SetColor(rgb)
	return true
}

// Apply implements Command.
func (c SetPosition) Apply(_ *device.Room, d device.Device) bool {
	b, ok := d.(*device.Blind)
	if ok {
		b.SetPosition(c.Position)
	}
	return ok
}

// Apply implements Command.
func (c SetTargetTemp) Apply(room *device.Room, d device.Device) bool {
	if _, ok := d.(*device.Heating); !ok || room == nil {
		return false
	}
	room.SetHeatingTarget(c.Target)
	return true
}

// ParseCommand turns a property/value pair into its command.
func ParseCommand(p Property, value float64) (Command, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: %s value %v", ErrInvalidAction, p, value)
	}
	level := int(math.Round(value))

	switch p {
	case PropertyStatus:
		return SetStatus{On: value != 0}, nil
	case PropertyDimmer:
		return SetDimmer{Level: level}, nil
	case PropertyRed:
		return SetColor{Channel: ChannelR, Value: level}, nil
	case PropertyGreen:
		return SetColor{Channel: ChannelG, Value: level}, nil
	case PropertyBlue:
		return SetColor{Channel: ChannelB, Value: level}, nil
	case PropertyPosition:
		return SetPosition{Position: value}, nil
	case PropertyTargetTemp:
		return SetTargetTemp{Target: value}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, p)
}

// Command returns the typed command of the action.
func (a Action) Command() (Command, error) {
	return ParseCommand(a.Property, a.Value)
}
