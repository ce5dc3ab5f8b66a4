package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/homedash-core/internal/automation"
	"github.com/nerrad567/homedash-core/internal/bridge"
)

// connectWebSocket starts a test listener and dials the hub.
func connectWebSocket(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(env.router)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v (resp: %v)", err, resp)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func subscribe(t *testing.T, ws *websocket.Conn, channels ...string) {
	t.Helper()
	if err := ws.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: channels},
	}); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}
	resp := readMessage(t, ws)
	if resp.Type != WSTypeResponse || resp.ID != "sub-1" {
		t.Fatalf("subscribe response = %+v", resp)
	}
}

func readMessage(t *testing.T, ws *websocket.Conn) WSMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck // test deadline
	var msg WSMessage
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg
}

// readEvent reads until an event on channel arrives.
func readEvent(t *testing.T, ws *websocket.Conn, channel string) WSMessage {
	t.Helper()
	for i := 0; i < 10; i++ {
		msg := readMessage(t, ws)
		if msg.Type == WSTypeEvent && msg.EventType == channel {
			return msg
		}
	}
	t.Fatalf("no %s event received", channel)
	return WSMessage{}
}

func TestWebSocket_PingPong(t *testing.T) {
	env := testServer(t)
	ws := connectWebSocket(t, env)

	if err := ws.WriteJSON(WSMessage{Type: WSTypePing, ID: "p1"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	resp := readMessage(t, ws)
	if resp.Type != WSTypePong || resp.ID != "p1" {
		t.Errorf("response = %+v, want pong p1", resp)
	}

	if err := ws.WriteJSON(WSMessage{Type: "bogus", ID: "b1"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if resp := readMessage(t, ws); resp.Type != WSTypeError {
		t.Errorf("unknown type response = %+v, want error", resp)
	}
}

func TestWebSocket_DeviceUpdatedOnToggle(t *testing.T) {
	env := testServer(t)
	ws := connectWebSocket(t, env)
	subscribe(t, ws, bridge.ChannelDeviceUpdated)

	w := env.do(t, http.MethodPost, "/api/v1/rooms/bad/devices/Spiegel/toggle", "")
	expectStatus(t, w, http.StatusOK)

	ev := readEvent(t, ws, bridge.ChannelDeviceUpdated)
	payload, _ := ev.Payload.(map[string]any)
	if payload["roomId"] != "bad" {
		t.Errorf("event payload = %v", ev.Payload)
	}
	dev, _ := payload["device"].(map[string]any)
	if dev["name"] != "Spiegel" || dev["status"] != float64(1) {
		t.Errorf("event device = %v", dev)
	}
}

func TestWebSocket_SceneExecutedAck(t *testing.T) {
	env := testServer(t)
	ws := connectWebSocket(t, env)
	subscribe(t, ws, WSChannelAll)

	w := env.do(t, http.MethodPost, "/api/v1/scenes/storen-zu/execute", "")
	expectStatus(t, w, http.StatusOK)

	ev := readEvent(t, ws, automation.ChannelSceneExecuted)
	payload, _ := ev.Payload.(map[string]any)
	if payload["scene_id"] != "storen-zu" {
		t.Errorf("scene.executed payload = %v", ev.Payload)
	}
}

func TestWebSocket_DeviceUpdateMessage(t *testing.T) {
	env := testServer(t)
	ws := connectWebSocket(t, env)
	subscribe(t, ws, bridge.ChannelDeviceUpdated)

	if err := ws.WriteJSON(WSMessage{
		Type: WSTypeDeviceUpdate,
		ID:   "u1",
		Payload: map[string]any{
			"roomId": "wohnzimmer", "deviceName": "Deckenlicht",
			"property": "dimmer", "value": 77,
		},
	}); err != nil {
		t.Fatalf("write update: %v", err)
	}

	var gotResponse, gotEvent bool
	for i := 0; i < 4 && !(gotResponse && gotEvent); i++ {
		msg := readMessage(t, ws)
		switch {
		case msg.Type == WSTypeResponse && msg.ID == "u1":
			gotResponse = true
		case msg.Type == WSTypeEvent && msg.EventType == bridge.ChannelDeviceUpdated:
			gotEvent = true
		}
	}
	if !gotResponse || !gotEvent {
		t.Errorf("response = %v, event = %v", gotResponse, gotEvent)
	}

	d, _ := env.registry.Device("wohnzimmer", "Deckenlicht")
	if level := d.(interface{ Level() int }).Level(); level != 77 {
		t.Errorf("level = %d, want 77", level)
	}

	// Unknown device: error reply, nothing changes.
	if err := ws.WriteJSON(WSMessage{
		Type:    WSTypeDeviceUpdate,
		ID:      "u2",
		Payload: map[string]any{"roomId": "bad", "deviceName": "Föhn", "property": "status", "value": 1},
	}); err != nil {
		t.Fatalf("write update: %v", err)
	}
	if resp := readMessage(t, ws); resp.Type != WSTypeError || resp.ID != "u2" {
		t.Errorf("unknown device response = %+v, want error", resp)
	}
}

func TestHub_ClientCount(t *testing.T) {
	env := testServer(t)
	ws := connectWebSocket(t, env)
	subscribe(t, ws, "x")

	if n := env.srv.hub.ClientCount(); n != 1 {
		t.Errorf("ClientCount() = %d, want 1", n)
	}
}
