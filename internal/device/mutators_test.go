package device

import (
	"errors"
	"math"
	"testing"
)

// ─── Dimming ────────────────────────────────────────────────────────

func TestSetDimmer_Clamps(t *testing.T) {
	tests := []struct {
		in     int
		want   int
		wantOn bool
	}{
		{-50, 0, false},
		{0, 0, false},
		{1, 1, true},
		{128, 128, true},
		{255, 255, true},
		{1000, 255, true},
	}

	for _, tt := range tests {
		d := &Dimmer{Dimming: Dimming{On: true, Brightness: 100}}
		d.SetDimmer(tt.in)
		if d.Brightness != tt.want {
			t.Errorf("SetDimmer(%d): brightness = %d, want %d", tt.in, d.Brightness, tt.want)
		}
		if d.On != tt.wantOn {
			t.Errorf("SetDimmer(%d): on = %v, want %v", tt.in, d.On, tt.wantOn)
		}
	}
}

func TestToggle_SmartOn(t *testing.T) {
	t.Run("zero brightness raised to min level", func(t *testing.T) {
		d := &Dimmer{}
		d.Toggle(40)
		if !d.On || d.Brightness != 40 {
			t.Errorf("after Toggle: on=%v brightness=%d, want on=true brightness=40", d.On, d.Brightness)
		}
	})

	t.Run("unset min level uses default", func(t *testing.T) {
		l := &RGBLight{}
		l.Toggle(0)
		if l.Brightness != DefaultMinDimLevel {
			t.Errorf("brightness = %d, want %d", l.Brightness, DefaultMinDimLevel)
		}
	})

	t.Run("existing brightness kept", func(t *testing.T) {
		d := &Dimmer{Dimming: Dimming{Brightness: 180}}
		d.Toggle(25)
		if !d.On || d.Brightness != 180 {
			t.Errorf("after Toggle: on=%v brightness=%d, want on=true brightness=180", d.On, d.Brightness)
		}
	})

	t.Run("switching off keeps brightness", func(t *testing.T) {
		d := &Dimmer{Dimming: Dimming{On: true, Brightness: 90}}
		d.Toggle(25)
		if d.On || d.Brightness != 90 {
			t.Errorf("after Toggle: on=%v brightness=%d, want on=false brightness=90", d.On, d.Brightness)
		}
	})

	t.Run("plain light", func(t *testing.T) {
		l := &Light{}
		l.Toggle(25)
		if !l.On {
			t.Error("light should be on after first toggle")
		}
		l.Toggle(25)
		if l.On {
			t.Error("light should be off after second toggle")
		}
	})
}

// ─── Colour ─────────────────────────────────────────────────────────

func TestColorFromHue_Primaries(t *testing.T) {
	tests := []struct {
		hue  float64
		want RGB
	}{
		{0, RGB{255, 0, 0}},
		{120, RGB{0, 255, 0}},
		{240, RGB{0, 0, 255}},
		{360, RGB{255, 0, 0}},
		{-120, RGB{0, 0, 255}},
		{30, RGB{255, 128, 0}},
	}

	for _, tt := range tests {
		if got := ColorFromHue(tt.hue); got != tt.want {
			t.Errorf("ColorFromHue(%v) = %+v, want %+v", tt.hue, got, tt.want)
		}
	}
}

func TestHueRoundTrip(t *testing.T) {
	for _, h := range []int{0, 120, 240} {
		if got := HueFromColor(ColorFromHue(float64(h))); got != h {
			t.Errorf("round trip of primary %d = %d", h, got)
		}
	}

	for h := 0; h < 360; h++ {
		got := HueFromColor(ColorFromHue(float64(h)))
		diff := math.Abs(float64(got - h))
		diff = math.Min(diff, 360-diff)
		if diff > 1 {
			t.Errorf("round trip of %d = %d (off by %.0f)", h, got, diff)
		}
	}
}

func TestHueFromColor_Grey(t *testing.T) {
	if got := HueFromColor(RGB{128, 128, 128}); got != 0 {
		t.Errorf("HueFromColor(grey) = %d, want 0", got)
	}
}

func TestSetColorFromHue_TurnsOn(t *testing.T) {
	l := &RGBLight{Dimming: Dimming{Brightness: 60}}
	l.SetColorFromHue(120)

	if !l.On {
		t.Error("light should be on after setting colour")
	}
	if l.RGB != (RGB{0, 255, 0}) {
		t.Errorf("RGB = %+v, want green", l.RGB)
	}
	if l.Brightness != 60 {
		t.Errorf("brightness = %d, want unchanged 60", l.Brightness)
	}
	if l.Hue() != 120 {
		t.Errorf("Hue() = %d, want 120", l.Hue())
	}
}

// ─── Blinds ─────────────────────────────────────────────────────────

func TestBlind_StepSize(t *testing.T) {
	tests := []struct {
		duration float64
		want     float64
	}{
		{20, 0.5},
		{25, 0.4},
		{40, 0.25},
		{0, 0.5},
		{-3, 0.5},
	}
	for _, tt := range tests {
		b := &Blind{Duration: tt.duration}
		if got := b.StepSize(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("StepSize(duration=%v) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}

func TestBlind_DriveBounds(t *testing.T) {
	b := &Blind{Duration: 25}

	var atBound bool
	var err error
	steps := 0
	for !atBound {
		atBound, err = b.Drive(DirectionClose, 1)
		if err != nil {
			t.Fatalf("Drive() error = %v", err)
		}
		if b.Position > MaxPosition {
			t.Fatalf("position %v exceeded %v", b.Position, MaxPosition)
		}
		steps++
		if steps > 1000 {
			t.Fatal("blind never reached closed position")
		}
	}
	if b.Position != MaxPosition {
		t.Errorf("position = %v, want %v", b.Position, MaxPosition)
	}
	// 25 s at 10 steps/s.
	if steps < 249 || steps > 251 {
		t.Errorf("closing took %d steps, want about 250", steps)
	}

	if atBound, _ := b.Drive(DirectionClose, 5); !atBound || b.Position != MaxPosition {
		t.Errorf("driving past closed: atBound=%v position=%v", atBound, b.Position)
	}

	atBound, _ = b.Drive(DirectionOpen, 10000)
	if !atBound || b.Position != MinPosition {
		t.Errorf("open sweep: atBound=%v position=%v, want true/0", atBound, b.Position)
	}
}

func TestBlind_DriveInvalidDirection(t *testing.T) {
	b := &Blind{Position: 50}
	if _, err := b.Drive("sideways", 1); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Drive(sideways) error = %v, want ErrInvalidDirection", err)
	}
	if b.Position != 50 {
		t.Errorf("position changed to %v", b.Position)
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"open": DirectionOpen, "auf": DirectionOpen, "up": DirectionOpen,
		"close": DirectionClose, "ab": DirectionClose, "down": DirectionClose,
	} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDirection("left"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("ParseDirection(left) error = %v", err)
	}
}

// ─── Heating ────────────────────────────────────────────────────────

func TestSetHeatingTarget(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{21.5, 21.5},
		{21.04, 21},
		{21.06, 21.1},
		{10, 15},
		{30, 25},
		{25, 25},
	}
	for _, tt := range tests {
		r := &Room{}
		r.SetHeatingTarget(tt.in)
		if r.TargetTemp != tt.want {
			t.Errorf("SetHeatingTarget(%v) = %v, want %v", tt.in, r.TargetTemp, tt.want)
		}
	}
}

func TestTargetFromDialAngle(t *testing.T) {
	tests := []struct {
		angle  float64
		want   float64
		wantOK bool
	}{
		{0, 15, true},
		{135, 20, true},
		{270, 25, true},
		{27, 16, true},
		{100, 18.7, true},
		{-1, 0, false},
		{300, 0, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		got, ok := TargetFromDialAngle(tt.angle)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("TargetFromDialAngle(%v) = %v, %v; want %v, %v", tt.angle, got, ok, tt.want, tt.wantOK)
		}
	}
}
