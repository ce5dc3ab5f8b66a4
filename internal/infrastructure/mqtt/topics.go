package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the dashboard's MQTT hierarchy.
const (
	// TopicPrefix is the root of every dashboard topic.
	TopicPrefix = "homedash"

	// TopicPrefixCore carries events produced by the core.
	TopicPrefixCore = "homedash/core"

	// TopicPrefixState carries per-device state pushed by the home controller.
	TopicPrefixState = "homedash/state"

	// TopicPrefixSystem carries process status.
	TopicPrefixSystem = "homedash/system"
)

// Topics builds dashboard topic names.
//
//	stateTopic := mqtt.Topics{}.DeviceState("wohnzimmer", "Deckenlicht")
//	// homedash/state/wohnzimmer/Deckenlicht
type Topics struct{}

// DeviceState is where the controller pushes updates for one device.
//
// Example: homedash/state/kueche/Hauptlicht
func (Topics) DeviceState(roomID, deviceName string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixState, roomID, deviceName)
}

// AllDeviceStates matches every device state topic.
//
// Pattern: homedash/state/+/+
func (Topics) AllDeviceStates() string {
	return TopicPrefixState + "/+/+"
}

// SceneActivated announces that a scene has been applied.
//
// Example: homedash/core/scene/film/activated
func (Topics) SceneActivated(sceneID string) string {
	return fmt.Sprintf("%s/scene/%s/activated", TopicPrefixCore, sceneID)
}

// DeviceCommand publishes a device change made through the dashboard so the
// home controller can act on it.
//
// Example: homedash/core/device/wohnzimmer/Ambiente/set
func (Topics) DeviceCommand(roomID, deviceName string) string {
	return fmt.Sprintf("%s/device/%s/%s/set", TopicPrefixCore, roomID, deviceName)
}

// SystemStatus carries the online/offline status of the core (and its LWT).
//
// Example: homedash/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// ParseDeviceState splits a DeviceState topic into room and device name.
func (Topics) ParseDeviceState(topic string) (roomID, deviceName string, ok bool) {
	rest, found := strings.CutPrefix(topic, TopicPrefixState+"/")
	if !found {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
