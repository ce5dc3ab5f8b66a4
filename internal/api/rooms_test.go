package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/nerrad567/homedash-core/internal/device"
)

// wireDevice is the flat device form returned by the control endpoints.
type wireDevice struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Status   int     `json:"status"`
	Dimmer   int     `json:"dimmer"`
	R        int     `json:"r"`
	G        int     `json:"g"`
	B        int     `json:"b"`
	Position float64 `json:"position"`
}

func TestListRooms(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodGet, "/api/v1/rooms", "")
	expectStatus(t, w, http.StatusOK)

	var resp struct {
		Rooms []struct {
			ID       string       `json:"id"`
			Controls []wireDevice `json:"controls"`
		} `json:"rooms"`
		Count int `json:"count"`
	}
	decode(t, w, &resp)
	if resp.Count != 4 || len(resp.Rooms) != 4 {
		t.Fatalf("count = %d, want 4", resp.Count)
	}
	if resp.Rooms[0].ID != "wohnzimmer" || len(resp.Rooms[0].Controls) != 7 {
		t.Errorf("first room = %s with %d controls", resp.Rooms[0].ID, len(resp.Rooms[0].Controls))
	}
}

func TestSummaries(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodGet, "/api/v1/rooms/summary", "")
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		Rooms []device.Summary `json:"rooms"`
	}
	decode(t, w, &resp)
	if len(resp.Rooms) != 4 {
		t.Fatalf("summaries = %d, want 4", len(resp.Rooms))
	}

	w = env.do(t, http.MethodGet, "/api/v1/rooms/wohnzimmer/summary", "")
	expectStatus(t, w, http.StatusOK)
	var s device.Summary
	decode(t, w, &s)
	if s.LightsOn != 2 || s.LightsTotal != 4 || s.Climate != device.ClimateHeating {
		t.Errorf("summary = %+v", s)
	}

	w = env.do(t, http.MethodGet, "/api/v1/rooms/keller/summary", "")
	expectStatus(t, w, http.StatusNotFound)
}

func TestGetDevice_EncodedName(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodGet, "/api/v1/rooms/wohnzimmer/devices/Storen%20S%C3%BCd", "")
	expectStatus(t, w, http.StatusOK)
	var d wireDevice
	decode(t, w, &d)
	if d.Name != "Storen Süd" || d.Type != string(device.TypeBlind) {
		t.Errorf("device = %+v", d)
	}

	w = env.do(t, http.MethodGet, "/api/v1/rooms/wohnzimmer/devices/Kamin", "")
	expectStatus(t, w, http.StatusNotFound)
}

func TestToggle(t *testing.T) {
	env := testServer(t)

	// Ambiente is off with brightness 200: it comes on unchanged.
	w := env.do(t, http.MethodPost, "/api/v1/rooms/wohnzimmer/devices/Ambiente/toggle", "")
	expectStatus(t, w, http.StatusOK)
	var d wireDevice
	decode(t, w, &d)
	if d.Status != 1 || d.Dimmer != 200 {
		t.Errorf("Ambiente = %+v, want on at 200", d)
	}

	w = env.do(t, http.MethodPost, "/api/v1/rooms/wohnzimmer/devices/Heizung/toggle", "")
	expectStatus(t, w, http.StatusUnprocessableEntity)
}

func TestToggle_SmartOn(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodPut, "/api/v1/rooms/wohnzimmer/devices/Deckenlicht/dimmer", `{"level":0}`)
	expectStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodPost, "/api/v1/rooms/wohnzimmer/devices/Deckenlicht/toggle", "")
	expectStatus(t, w, http.StatusOK)
	var d wireDevice
	decode(t, w, &d)
	if d.Status != 1 || d.Dimmer != device.DefaultMinDimLevel {
		t.Errorf("Deckenlicht = %+v, want on at %d", d, device.DefaultMinDimLevel)
	}
}

func TestSetDimmer(t *testing.T) {
	env := testServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"sets level", "/api/v1/rooms/wohnzimmer/devices/Deckenlicht/dimmer", `{"level":300}`, http.StatusOK},
		{"missing level", "/api/v1/rooms/wohnzimmer/devices/Deckenlicht/dimmer", `{}`, http.StatusBadRequest},
		{"bad json", "/api/v1/rooms/wohnzimmer/devices/Deckenlicht/dimmer", `{`, http.StatusBadRequest},
		{"plain light", "/api/v1/rooms/wohnzimmer/devices/Stehlampe/dimmer", `{"level":10}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, tt.path, tt.body)
			expectStatus(t, w, tt.status)
		})
	}

	d, _ := env.registry.Device("wohnzimmer", "Deckenlicht")
	if d.(device.Dimmable).Level() != device.MaxLevel {
		t.Errorf("level = %d, want clamped to %d", d.(device.Dimmable).Level(), device.MaxLevel)
	}
}

func TestHue(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodPut, "/api/v1/rooms/wohnzimmer/devices/Ambiente2/hue", `{"hue":120}`)
	expectStatus(t, w, http.StatusOK)
	var d wireDevice
	decode(t, w, &d)
	if d.Status != 1 || d.R != 0 || d.G != 255 || d.B != 0 {
		t.Errorf("Ambiente2 = %+v, want green and on", d)
	}

	w = env.do(t, http.MethodGet, "/api/v1/rooms/wohnzimmer/devices/Ambiente2/hue", "")
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		Hue int `json:"hue"`
	}
	decode(t, w, &resp)
	if resp.Hue != 120 {
		t.Errorf("hue = %d, want 120", resp.Hue)
	}

	w = env.do(t, http.MethodGet, "/api/v1/rooms/wohnzimmer/devices/Deckenlicht/hue", "")
	expectStatus(t, w, http.StatusUnprocessableEntity)
}

func TestSetHeating(t *testing.T) {
	env := testServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		want   float64
	}{
		{"direct target", `{"target":21.46}`, http.StatusOK, 21.5},
		{"clamped target", `{"target":30}`, http.StatusOK, 25},
		{"dial angle", `{"angle":135}`, http.StatusOK, 20},
		{"angle out of range", `{"angle":300}`, http.StatusBadRequest, 0},
		{"nothing", `{}`, http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, "/api/v1/rooms/kueche/heating", tt.body)
			expectStatus(t, w, tt.status)
			if tt.status != http.StatusOK {
				return
			}
			var resp struct {
				TargetTemp float64 `json:"targetTemp"`
			}
			decode(t, w, &resp)
			if resp.TargetTemp != tt.want {
				t.Errorf("targetTemp = %v, want %v", resp.TargetTemp, tt.want)
			}
		})
	}

	w := env.do(t, http.MethodPut, "/api/v1/rooms/keller/heating", `{"target":20}`)
	expectStatus(t, w, http.StatusNotFound)
}

func TestBlindDrive(t *testing.T) {
	env := testServer(t)
	const path = "/api/v1/rooms/wohnzimmer/devices/Storen%20West/drive"

	w := env.do(t, http.MethodPost, path, `{"direction":"sideways"}`)
	expectStatus(t, w, http.StatusBadRequest)

	w = env.do(t, http.MethodPost, "/api/v1/rooms/wohnzimmer/devices/Stehlampe/drive", `{"direction":"close"}`)
	expectStatus(t, w, http.StatusUnprocessableEntity)

	w = env.do(t, http.MethodPost, path, `{"direction":"close"}`)
	expectStatus(t, w, http.StatusAccepted)

	deadline := time.Now().Add(2 * time.Second)
	for {
		d, _ := env.registry.Device("wohnzimmer", "Storen West")
		if d.(*device.Blind).Position > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	w = env.do(t, http.MethodDelete, path, "")
	expectStatus(t, w, http.StatusOK)
	var d wireDevice
	decode(t, w, &d)
	if d.Position <= 0 {
		t.Errorf("position after drive = %v, want > 0", d.Position)
	}
	if env.srv.driver.Active("wohnzimmer", "Storen West") {
		t.Error("drive still active after stop")
	}

	// Stopping again is harmless.
	w = env.do(t, http.MethodDelete, path, "")
	expectStatus(t, w, http.StatusOK)
}

func TestPushUpdateEndpoint(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodPost, "/api/v1/updates",
		`{"roomId":"bad","deviceName":"Spiegel","property":"status","value":true}`)
	expectStatus(t, w, http.StatusOK)
	var d wireDevice
	decode(t, w, &d)
	if d.Status != 1 {
		t.Errorf("Spiegel = %+v, want on", d)
	}

	w = env.do(t, http.MethodPost, "/api/v1/updates",
		`{"roomId":"bad","deviceName":"Spiegel","property":"volume","value":1}`)
	expectStatus(t, w, http.StatusBadRequest)

	w = env.do(t, http.MethodPost, "/api/v1/updates",
		`{"roomId":"keller","deviceName":"Licht","property":"status","value":1}`)
	expectStatus(t, w, http.StatusNotFound)
}
