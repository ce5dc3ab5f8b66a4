package device

// Type discriminates the device variants.
type Type string

// Device types as they appear in the data model and in scene actions.
const (
	TypeLight  Type = "light"
	TypeDimmer Type = "dimmer"
	TypeRGB    Type = "rgb"
	TypeBlind  Type = "blend"
	TypeHeat   Type = "heat"
)

// Valid reports whether t is a known device type.
func (t Type) Valid() bool {
	switch t {
	case TypeLight, TypeDimmer, TypeRGB, TypeBlind, TypeHeat:
		return true
	}
	return false
}

// Value ranges enforced on every mutation.
const (
	MinLevel    = 0
	MaxLevel    = 255
	MinPosition = 0.0
	MaxPosition = 100.0
	MinTarget   = 15.0
	MaxTarget   = 25.0

	// DefaultMinDimLevel is the smart-on brightness when none is configured.
	DefaultMinDimLevel = 25

	// DefaultBlindDuration is the full-travel time in seconds used when a
	// blind has no valid duration.
	DefaultBlindDuration = 20.0
)

// Device is one entry of a room's control list. The concrete value is one of
// *Light, *Dimmer, *RGBLight, *Blind or *Heating.
type Device interface {
	// Meta returns the device identity.
	Meta() Info
	// Type returns the variant tag.
	Type() Type

	clone() Device
}

// Clone returns an independent copy of d.
func Clone(d Device) Device {
	if d == nil {
		return nil
	}
	return d.clone()
}

// Info is the identity shared by every variant. Name is unique within a
// room.
type Info struct {
	Name string
	Icon string
}

// Meta implements Device.
func (i Info) Meta() Info { return i }

// Switchable devices have an on/off status.
type Switchable interface {
	Device
	IsOn() bool
	SetOn(on bool)
	// Toggle flips the status. minDim is the smart-on level for dimmable
	// devices and is ignored otherwise.
	Toggle(minDim int)
}

// Dimmable devices have a brightness level in [0,255].
type Dimmable interface {
	Switchable
	Level() int
	SetLevel(v int)
	SetDimmer(v int)
}

// Colorable devices carry an RGB colour.
type Colorable interface {
	Dimmable
	Color() RGB
	SetColor(c RGB)
	SetColorFromHue(hue float64)
}

// RGB is a colour with channels in [0,255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Clamped returns c with every channel limited to [0,255].
func (c RGB) Clamped() RGB {
	return RGB{R: clampInt(c.R, MinLevel, MaxLevel), G: clampInt(c.G, MinLevel, MaxLevel), B: clampInt(c.B, MinLevel, MaxLevel)}
}

// Switch is the on/off state of a plain light.
type Switch struct {
	On bool
}

// IsOn reports the status.
func (s *Switch) IsOn() bool { return s.On }

// SetOn writes the status.
func (s *Switch) SetOn(on bool) { s.On = on }

// Toggle flips the status.
func (s *Switch) Toggle(int) { s.On = !s.On }

// Dimming is the status and brightness shared by dimmers and RGB lights.
type Dimming struct {
	On         bool
	Brightness int
}

// IsOn reports the status.
func (d *Dimming) IsOn() bool { return d.On }

// SetOn writes the status without touching the brightness.
func (d *Dimming) SetOn(on bool) { d.On = on }

// Level returns the brightness.
func (d *Dimming) Level() int { return d.Brightness }

// SetLevel writes the clamped brightness without deriving the status.
func (d *Dimming) SetLevel(v int) { d.Brightness = clampInt(v, MinLevel, MaxLevel) }

// Light is a plain on/off light.
type Light struct {
	Info
	Switch
}

// Type implements Device.
func (*Light) Type() Type { return TypeLight }

func (l *Light) clone() Device { c := *l; return &c }

// Dimmer is a light with adjustable brightness.
type Dimmer struct {
	Info
	Dimming
}

// Type implements Device.
func (*Dimmer) Type() Type { return TypeDimmer }

func (d *Dimmer) clone() Device { c := *d; return &c }

// RGBLight is a dimmable colour light.
type RGBLight struct {
	Info
	Dimming
	RGB RGB
}

// Type implements Device.
func (*RGBLight) Type() Type { return TypeRGB }

func (l *RGBLight) clone() Device { c := *l; return &c }

// Color returns the stored colour.
func (l *RGBLight) Color() RGB { return l.RGB }

// SetColor stores the clamped colour without changing the status.
func (l *RGBLight) SetColor(c RGB) { l.RGB = c.Clamped() }

// Blind is a motorised blind. Position 0 is fully open, 100 fully closed.
type Blind struct {
	Info
	Position float64
	// Duration is the full-travel time in seconds.
	Duration float64
}

// Type implements Device.
func (*Blind) Type() Type { return TypeBlind }

func (b *Blind) clone() Device { c := *b; return &c }

// SetPosition stores the clamped position.
func (b *Blind) SetPosition(p float64) { b.Position = clampFloat(p, MinPosition, MaxPosition) }

// TravelDuration returns Duration, or DefaultBlindDuration when unset or
// invalid.
func (b *Blind) TravelDuration() float64 {
	if b.Duration > 0 {
		return b.Duration
	}
	return DefaultBlindDuration
}

// Heating is a room's heating actuator. Its setpoint lives on the room.
type Heating struct {
	Info
}

// Type implements Device.
func (*Heating) Type() Type { return TypeHeat }

func (h *Heating) clone() Device { c := *h; return &c }

// Room groups devices and carries the climate values.
type Room struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Icon        string   `json:"icon"`
	CurrentTemp float64  `json:"currentTemp"`
	TargetTemp  float64  `json:"targetTemp"`
	Humidity    int      `json:"humidity"`
	Controls    []Device `json:"-"`
}

// Find returns the device called name, or nil.
func (r *Room) Find(name string) Device {
	for _, d := range r.Controls {
		if d.Meta().Name == name {
			return d
		}
	}
	return nil
}

// Match returns the devices matching both filters, in display order. An
// empty filter is ignored; with both empty nothing matches.
func (r *Room) Match(kind Type, name string) []Device {
	if kind == "" && name == "" {
		return nil
	}
	var out []Device
	for _, d := range r.Controls {
		if kind != "" && d.Type() != kind {
			continue
		}
		if name != "" && d.Meta().Name != name {
			continue
		}
		out = append(out, d)
	}
	return out
}

// DeepCopy returns an independent copy of the room and all its devices.
func (r *Room) DeepCopy() *Room {
	if r == nil {
		return nil
	}
	cpy := *r
	cpy.Controls = make([]Device, len(r.Controls))
	for i, d := range r.Controls {
		cpy.Controls[i] = d.clone()
	}
	return &cpy
}

// SystemConfig holds the settings that apply to every room.
type SystemConfig struct {
	// Heating is true in heating mode, false in cooling mode.
	Heating     bool
	MinDimLevel int
}

// DefaultSystemConfig returns heating mode with the default smart-on level.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{Heating: true, MinDimLevel: DefaultMinDimLevel}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampFloat(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
