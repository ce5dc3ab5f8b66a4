package device

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Toggle flips the status. Switching on at zero brightness raises the
// brightness to minDim so the light is never on but dark.
func (d *Dimming) Toggle(minDim int) {
	if d.On {
		d.On = false
		return
	}
	d.On = true
	if d.Brightness == 0 {
		if minDim <= 0 {
			minDim = DefaultMinDimLevel
		}
		d.SetLevel(minDim)
	}
}

// SetDimmer stores the clamped brightness and derives the status from it:
// zero is off, anything above is on.
func (d *Dimming) SetDimmer(v int) {
	d.SetLevel(v)
	d.On = d.Brightness > 0
}

// SetColorFromHue converts the hue angle (degrees, fully saturated, half
// lightness) to RGB, stores it and switches the light on.
func (l *RGBLight) SetColorFromHue(hue float64) {
	l.RGB = ColorFromHue(hue)
	l.On = true
}

// Hue returns the hue angle of the stored colour, for initialising a colour
// picker.
func (l *RGBLight) Hue() int {
	return HueFromColor(l.RGB)
}

// ColorFromHue maps a hue angle to RGB with saturation 1 and lightness 0.5.
func ColorFromHue(hue float64) RGB {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, 1, 0.5).RGB255()
	return RGB{R: int(r), G: int(g), B: int(b)}
}

// HueFromColor returns the hue of c in whole degrees within [0,360).
// Greys have hue 0.
func HueFromColor(c RGB) int {
	c = c.Clamped()
	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, _, _ := col.Hsl()
	return int(math.Round(h)) % 360
}

// Direction is the travel direction of a blind.
type Direction string

// Blind directions. Closing increases the position.
const (
	DirectionOpen  Direction = "open"
	DirectionClose Direction = "close"
)

// ParseDirection accepts open/close and the dashboard's auf/ab.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "open", "up", "auf":
		return DirectionOpen, nil
	case "close", "down", "ab":
		return DirectionClose, nil
	}
	return "", ErrInvalidDirection
}

// StepsPerSecond is the drive rate the step size is computed for.
const StepsPerSecond = 10

// StepSize is the position change of one drive step: a full sweep takes
// TravelDuration seconds at StepsPerSecond.
func (b *Blind) StepSize() float64 {
	return (MaxPosition / b.TravelDuration()) / StepsPerSecond
}

// Drive moves the blind by steps steps in direction dir, clamping at the
// bounds. It reports whether the blind has reached the end of travel in that
// direction, at which point a running drive should stop.
func (b *Blind) Drive(dir Direction, steps int) (atBound bool, err error) {
	delta := b.StepSize() * float64(steps)
	switch dir {
	case DirectionClose:
		b.SetPosition(b.Position + delta)
		return b.Position >= MaxPosition, nil
	case DirectionOpen:
		b.SetPosition(b.Position - delta)
		return b.Position <= MinPosition, nil
	}
	return false, ErrInvalidDirection
}

// SetHeatingTarget clamps v to [15,25], rounds it to one decimal and stores
// it as the room's target temperature.
func (r *Room) SetHeatingTarget(v float64) {
	r.TargetTemp = math.Round(clampFloat(v, MinTarget, MaxTarget)*10) / 10
}

// DialSweep is the angular range of the heating dial in degrees.
const DialSweep = 270.0

// TargetFromDialAngle maps a dial angle in [0,270] linearly onto [15,25] °C,
// rounded to one decimal. ok is false for angles outside the dial.
func TargetFromDialAngle(angle float64) (target float64, ok bool) {
	if math.IsNaN(angle) || angle < 0 || angle > DialSweep {
		return 0, false
	}
	raw := MinTarget + angle/DialSweep*(MaxTarget-MinTarget)
	return math.Round(raw*10) / 10, true
}

// HasHeating reports whether the room has a heating device.
func (r *Room) HasHeating() bool {
	for _, d := range r.Controls {
		if d.Type() == TypeHeat {
			return true
		}
	}
	return false
}
