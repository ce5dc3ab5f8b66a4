package bridge

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nerrad567/homedash-core/internal/automation"
	"github.com/nerrad567/homedash-core/internal/device"
	"github.com/nerrad567/homedash-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/homedash-core/internal/metrics"
)

// ChannelDeviceUpdated is the WebSocket channel for device changes.
const ChannelDeviceUpdated = "device.updated"

// Logger defines the logging interface used by the Bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MQTTClient is the subset of *mqtt.Client the bridge uses.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// WSHub is the interface for broadcasting WebSocket events.
type WSHub interface {
	Broadcast(channel string, payload any)
}

// Recorder counts push updates by result.
type Recorder interface {
	PushUpdate(result string)
}

// DeviceEvent is the payload of a device.updated broadcast. TargetTemp is
// set for heating devices, whose setpoint lives on the room.
type DeviceEvent struct {
	RoomID     string          `json:"roomId"`
	Device     json.RawMessage `json:"device"`
	TargetTemp *float64        `json:"targetTemp,omitempty"`
}

// activation is the payload published when a scene has been applied.
type activation struct {
	SceneID   string `json:"scene_id"`
	SceneName string `json:"scene_name"`
	RoomID    string `json:"room_id"`
}

// Bridge applies pushed device changes and publishes core events.
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	engine  *automation.Engine
	devices *device.Registry
	topics  mqtt.Topics

	mu       sync.RWMutex
	client   MQTTClient
	qos      byte
	hub      WSHub
	recorder Recorder
	logger   Logger

	wg sync.WaitGroup
}

// New creates a bridge over the engine and its Registry. Call Start to
// attach an MQTT client.
func New(engine *automation.Engine, devices *device.Registry) *Bridge {
	return &Bridge{
		engine:  engine,
		devices: devices,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger.
func (b *Bridge) SetLogger(logger Logger) {
	b.mu.Lock()
	b.logger = logger
	b.mu.Unlock()
}

// SetHub sets the hub that receives device.updated events.
func (b *Bridge) SetHub(hub WSHub) {
	b.mu.Lock()
	b.hub = hub
	b.mu.Unlock()
}

// SetRecorder sets the push-update counter.
func (b *Bridge) SetRecorder(r Recorder) {
	b.mu.Lock()
	b.recorder = r
	b.mu.Unlock()
}

// Start subscribes to every device state topic on client and enables the
// outbound publications.
func (b *Bridge) Start(client MQTTClient, qos byte) error {
	b.mu.Lock()
	b.client = client
	b.qos = qos
	logger := b.logger
	b.mu.Unlock()

	topic := b.topics.AllDeviceStates()
	if err := client.Subscribe(topic, qos, b.handleState); err != nil {
		return fmt.Errorf("subscribe to device states: %w", err)
	}
	logger.Info("subscribed to device states", "topic", topic)
	return nil
}

// Stop waits for in-flight publications.
func (b *Bridge) Stop() {
	b.wg.Wait()
}

// Apply writes a pushed change to the Registry and broadcasts the result.
// Unknown rooms, devices and properties are logged and returned; the
// Registry is left untouched.
func (b *Bridge) Apply(u automation.Update) (device.Device, error) {
	d, err := b.engine.ApplyUpdate(u)
	if err != nil {
		b.record(metrics.PushRejected)
		b.log().Warn("push update rejected",
			"room", u.RoomID, "device", u.DeviceName, "property", u.Property, "error", err)
		return nil, err
	}
	b.record(metrics.PushApplied)
	b.log().Debug("push update applied",
		"room", u.RoomID, "device", u.DeviceName, "property", u.Property, "value", u.Value)

	ev, err := b.Event(u.RoomID, d)
	if err != nil {
		b.log().Error("encoding device event", "room", u.RoomID, "error", err)
		return d, nil
	}
	b.broadcast(ev)
	return d, nil
}

// Notify broadcasts a device change to WebSocket clients only. Blind drive
// steps use it so a moving blind does not flood the controller.
func (b *Bridge) Notify(roomID string, d device.Device) {
	ev, err := b.Event(roomID, d)
	if err != nil {
		b.log().Error("encoding device event", "room", roomID, "error", err)
		return
	}
	b.broadcast(ev)
}

// Announce broadcasts a change made through the dashboard and forwards it to
// the controller when MQTT is running. The command payload is the
// device.updated event.
func (b *Bridge) Announce(roomID string, d device.Device) {
	ev, err := b.Event(roomID, d)
	if err != nil {
		b.log().Error("encoding device event", "room", roomID, "error", err)
		return
	}
	b.broadcast(ev)

	b.mu.RLock()
	client, qos := b.client, b.qos
	b.mu.RUnlock()
	if client == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		b.log().Error("encoding device command", "room", roomID, "error", err)
		return
	}
	topic := b.topics.DeviceCommand(roomID, d.Meta().Name)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := client.Publish(topic, payload, qos, false); err != nil {
			b.log().Warn("device command publish failed", "topic", topic, "error", err)
		}
	}()
}

// PublishSceneActivated announces an applied scene. It implements
// automation.ActivationPublisher.
func (b *Bridge) PublishSceneActivated(sceneID, sceneName, roomID string) error {
	b.mu.RLock()
	client, qos := b.client, b.qos
	b.mu.RUnlock()
	if client == nil {
		return ErrNotStarted
	}

	payload, err := json.Marshal(activation{SceneID: sceneID, SceneName: sceneName, RoomID: roomID})
	if err != nil {
		return fmt.Errorf("encoding activation: %w", err)
	}
	if err := client.Publish(b.topics.SceneActivated(sceneID), payload, qos, false); err != nil {
		return fmt.Errorf("publishing activation of %s: %w", sceneID, err)
	}
	return nil
}

// Event builds the device.updated payload for d.
func (b *Bridge) Event(roomID string, d device.Device) (DeviceEvent, error) {
	raw, err := device.MarshalDevice(d)
	if err != nil {
		return DeviceEvent{}, err
	}
	ev := DeviceEvent{RoomID: roomID, Device: raw}
	if d.Type() == device.TypeHeat {
		if room, err := b.devices.Room(roomID); err == nil {
			target := room.TargetTemp
			ev.TargetTemp = &target
		}
	}
	return ev, nil
}

// handleState is the MQTT handler for device state topics. Errors are
// logged by the MQTT client.
func (b *Bridge) handleState(topic string, payload []byte) error {
	roomID, name, ok := b.topics.ParseDeviceState(topic)
	if !ok {
		b.record(metrics.PushRejected)
		return fmt.Errorf("%w: %s", ErrInvalidTopic, topic)
	}

	// The payload carries property and value; room and device come from
	// the topic.
	var u automation.Update
	if err := json.Unmarshal(payload, &u); err != nil {
		b.record(metrics.PushRejected)
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	u.RoomID, u.DeviceName = roomID, name

	// Apply logs rejections itself.
	_, _ = b.Apply(u)
	return nil
}

func (b *Bridge) broadcast(ev DeviceEvent) {
	b.mu.RLock()
	hub := b.hub
	b.mu.RUnlock()
	if hub != nil {
		hub.Broadcast(ChannelDeviceUpdated, ev)
	}
}

func (b *Bridge) record(result string) {
	b.mu.RLock()
	r := b.recorder
	b.mu.RUnlock()
	if r != nil {
		r.PushUpdate(result)
	}
}

func (b *Bridge) log() Logger {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.logger
}
