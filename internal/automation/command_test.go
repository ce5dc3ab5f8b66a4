package automation

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/nerrad567/homedash-core/internal/device"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		prop    Property
		value   float64
		want    Command
		wantErr error
	}{
		{PropertyStatus, 1, SetStatus{On: true}, nil},
		{PropertyStatus, 0, SetStatus{On: false}, nil},
		{PropertyDimmer, 180, SetDimmer{Level: 180}, nil},
		{PropertyDimmer, 79.6, SetDimmer{Level: 80}, nil},
		{PropertyRed, 255, SetColor{Channel: ChannelR, Value: 255}, nil},
		{PropertyGreen, 100, SetColor{Channel: ChannelG, Value: 100}, nil},
		{PropertyBlue, 50, SetColor{Channel: ChannelB, Value: 50}, nil},
		{PropertyPosition, 42.5, SetPosition{Position: 42.5}, nil},
		{PropertyTargetTemp, 21.5, SetTargetTemp{Target: 21.5}, nil},
		{"type", 1, nil, ErrUnknownProperty},
		{"name", 1, nil, ErrUnknownProperty},
		{PropertyDimmer, math.NaN(), nil, ErrInvalidAction},
		{PropertyPosition, math.Inf(1), nil, ErrInvalidAction},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.prop, tt.value)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseCommand(%q, %v) error = %v, want %v", tt.prop, tt.value, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCommand(%q, %v) error = %v", tt.prop, tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCommand(%q, %v) = %#v, want %#v", tt.prop, tt.value, got, tt.want)
		}
	}
}

func TestCommand_ApplyRespectsVariant(t *testing.T) {
	room := &device.Room{ID: "r", TargetTemp: 20}
	light := &device.Light{Info: device.Info{Name: "l"}}
	dimmer := &device.Dimmer{Info: device.Info{Name: "d"}}
	rgb := &device.RGBLight{Info: device.Info{Name: "c"}}
	blind := &device.Blind{Info: device.Info{Name: "b"}}
	heat := &device.Heating{Info: device.Info{Name: "h"}}

	tests := []struct {
		name string
		cmd  Command
		dev  device.Device
		want bool
	}{
		{"status on light", SetStatus{On: true}, light, true},
		{"status on blind", SetStatus{On: true}, blind, false},
		{"dimmer on light", SetDimmer{Level: 10}, light, false},
		{"dimmer on dimmer", SetDimmer{Level: 10}, dimmer, true},
		{"colour on dimmer", SetColor{Channel: ChannelR, Value: 1}, dimmer, false},
		{"colour on rgb", SetColor{Channel: ChannelR, Value: 1}, rgb, true},
		{"bad channel", SetColor{Channel: 'x', Value: 1}, rgb, false},
		{"position on blind", SetPosition{Position: 50}, blind, true},
		{"position on heat", SetPosition{Position: 50}, heat, false},
		{"target on heat", SetTargetTemp{Target: 22}, heat, true},
		{"target on light", SetTargetTemp{Target: 22}, light, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Apply(room, tt.dev); got != tt.want {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommand_ApplyClampsWithoutDeriving(t *testing.T) {
	d := &device.Dimmer{Info: device.Info{Name: "d"}, Dimming: device.Dimming{On: false, Brightness: 0}}
	SetDimmer{Level: 999}.Apply(nil, d)
	if d.Brightness != device.MaxLevel {
		t.Errorf("Brightness = %d, want %d", d.Brightness, device.MaxLevel)
	}
	if d.On {
		t.Error("SetDimmer must not switch the dimmer on")
	}

	SetStatus{On: true}.Apply(nil, d)
	SetDimmer{Level: 0}.Apply(nil, d)
	if !d.On {
		t.Error("SetDimmer(0) must not switch the dimmer off")
	}

	c := &device.RGBLight{Info: device.Info{Name: "c"}, RGB: device.RGB{R: 1, G: 2, B: 3}}
	SetColor{Channel: ChannelG, Value: -5}.Apply(nil, c)
	if c.RGB != (device.RGB{R: 1, G: 0, B: 3}) {
		t.Errorf("RGB = %+v, want {1 0 3}", c.RGB)
	}

	b := &device.Blind{Info: device.Info{Name: "b"}}
	SetPosition{Position: 140}.Apply(nil, b)
	if b.Position != device.MaxPosition {
		t.Errorf("Position = %v, want %v", b.Position, device.MaxPosition)
	}

	room := &device.Room{ID: "r"}
	SetTargetTemp{Target: 21.44}.Apply(room, &device.Heating{})
	if room.TargetTemp != 21.4 {
		t.Errorf("TargetTemp = %v, want 21.4", room.TargetTemp)
	}
}

func TestAction_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{`{"device":"x","property":"status","value":1}`, 1, false},
		{`{"device":"x","property":"status","value":true}`, 1, false},
		{`{"device":"x","property":"status","value":false}`, 0, false},
		{`{"device":"x","property":"dimmer","value":128.5}`, 128.5, false},
		{`{"device":"x","property":"status"}`, 0, false},
		{`{"device":"x","property":"status","value":"on"}`, 0, true},
	}
	for _, tt := range tests {
		var a Action
		err := json.Unmarshal([]byte(tt.in), &a)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && (a.Value != tt.want || a.Device != "x") {
			t.Errorf("Unmarshal(%s) = %+v, want value %v", tt.in, a, tt.want)
		}
	}
}

func TestScene_JSONShape(t *testing.T) {
	s := Scene{
		ID: "film", Name: "Film", Icon: "🎬",
		Actions: []Action{{Room: AllRooms, DeviceType: device.TypeBlind, Property: PropertyPosition, Value: 100}},
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := raw["description"]; ok {
		t.Error("empty description should be omitted")
	}
	action := raw["actions"].([]any)[0].(map[string]any)
	if action["room"] != "*" || action["deviceType"] != "blend" || action["property"] != "position" {
		t.Errorf("action JSON = %v", action)
	}
	if _, ok := action["device"]; ok {
		t.Error("empty device should be omitted")
	}
}
