package device

import (
	"encoding/json"
	"fmt"
)

// deviceJSON is the flat wire form of every variant. Fields that a variant
// does not carry are omitted.
type deviceJSON struct {
	Name     string   `json:"name"`
	Icon     string   `json:"icon,omitempty"`
	Type     Type     `json:"type"`
	Status   *int     `json:"status,omitempty"`
	Dimmer   *int     `json:"dimmer,omitempty"`
	R        *int     `json:"r,omitempty"`
	G        *int     `json:"g,omitempty"`
	B        *int     `json:"b,omitempty"`
	Position *float64 `json:"position,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

func statusOf(on bool) *int {
	v := 0
	if on {
		v = 1
	}
	return &v
}

func toJSON(d Device) deviceJSON {
	info := d.Meta()
	w := deviceJSON{Name: info.Name, Icon: info.Icon, Type: d.Type()}

	switch v := d.(type) {
	case *Light:
		w.Status = statusOf(v.On)
	case *Dimmer:
		level := v.Brightness
		w.Status, w.Dimmer = statusOf(v.On), &level
	case *RGBLight:
		level, r, g, b := v.Brightness, v.RGB.R, v.RGB.G, v.RGB.B
		w.Status, w.Dimmer = statusOf(v.On), &level
		w.R, w.G, w.B = &r, &g, &b
	case *Blind:
		pos, dur := v.Position, v.TravelDuration()
		w.Position, w.Duration = &pos, &dur
	}
	return w
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func fromJSON(w deviceJSON) (Device, error) {
	if w.Name == "" {
		return nil, fmt.Errorf("%w: device name is required", ErrInvalidDevice)
	}
	info := Info{Name: w.Name, Icon: w.Icon}
	on := intOr(w.Status, 0) != 0

	switch w.Type {
	case TypeLight:
		return &Light{Info: info, Switch: Switch{On: on}}, nil
	case TypeDimmer:
		d := &Dimmer{Info: info, Dimming: Dimming{On: on}}
		d.SetLevel(intOr(w.Dimmer, 0))
		return d, nil
	case TypeRGB:
		l := &RGBLight{Info: info, Dimming: Dimming{On: on}}
		l.SetLevel(intOr(w.Dimmer, 0))
		l.SetColor(RGB{R: intOr(w.R, 0), G: intOr(w.G, 0), B: intOr(w.B, 0)})
		return l, nil
	case TypeBlind:
		b := &Blind{Info: info}
		if w.Duration != nil {
			b.Duration = *w.Duration
		}
		if w.Position != nil {
			b.SetPosition(*w.Position)
		}
		return b, nil
	case TypeHeat:
		return &Heating{Info: info}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, w.Type)
	}
}

// MarshalDevice encodes a device in its flat wire form.
func MarshalDevice(d Device) ([]byte, error) {
	return json.Marshal(toJSON(d))
}

// UnmarshalDevice decodes a device from its flat wire form.
func UnmarshalDevice(data []byte) (Device, error) {
	var w deviceJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding device: %w", err)
	}
	return fromJSON(w)
}

type roomAlias Room

type roomJSON struct {
	*roomAlias
	Controls []deviceJSON `json:"controls"`
}

// MarshalJSON includes the control list in its wire form.
func (r *Room) MarshalJSON() ([]byte, error) {
	controls := make([]deviceJSON, len(r.Controls))
	for i, d := range r.Controls {
		controls[i] = toJSON(d)
	}
	return json.Marshal(roomJSON{roomAlias: (*roomAlias)(r), Controls: controls})
}

// UnmarshalJSON decodes a room and its control list.
func (r *Room) UnmarshalJSON(data []byte) error {
	aux := roomJSON{roomAlias: (*roomAlias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Controls = make([]Device, 0, len(aux.Controls))
	for _, w := range aux.Controls {
		d, err := fromJSON(w)
		if err != nil {
			return fmt.Errorf("room %s: %w", r.ID, err)
		}
		r.Controls = append(r.Controls, d)
	}
	return nil
}

// Wire values of SystemConfig.Heating.
const (
	ModeHeating = "heating"
	ModeCooling = "cooling"
)

type systemConfigJSON struct {
	Mode        string `json:"mode"`
	MinDimLevel int    `json:"minDimLevel"`
}

// MarshalJSON encodes the mode as "heating" or "cooling".
func (c SystemConfig) MarshalJSON() ([]byte, error) {
	mode := ModeCooling
	if c.Heating {
		mode = ModeHeating
	}
	return json.Marshal(systemConfigJSON{Mode: mode, MinDimLevel: c.MinDimLevel})
}

// UnmarshalJSON accepts "heating" or "cooling". A missing mode means heating.
func (c *SystemConfig) UnmarshalJSON(data []byte) error {
	var w systemConfigJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Mode {
	case ModeHeating, "":
		c.Heating = true
	case ModeCooling:
		c.Heating = false
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, w.Mode)
	}
	c.MinDimLevel = w.MinDimLevel
	return nil
}
