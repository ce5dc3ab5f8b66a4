// Package automation provides the scene engine of the dashboard.
//
// A scene is a named, ordered list of actions. Each action selects devices
// by room, device type and device name, and writes one property to every
// match:
//
//	{room: "*",          deviceType: "light",   property: "status", value: 0}
//	{room: "wohnzimmer", device: "Deckenlicht", property: "dimmer", value: 180}
//	{device: "Ambiente", property: "r", value: 255}   // room given at run time
//
// Properties are parsed into a closed set of typed commands (SetStatus,
// SetDimmer, SetColor, SetPosition, SetTargetTemp) which apply only to the
// device variants that carry the property. A command that does not fit a
// matched device is skipped.
//
// Four catalogs exist: predefined global scenes, predefined room scenes,
// user global scenes and user room scenes. Predefined catalogs are fixed;
// user catalogs are persisted through the storage package under the keys
// userGlobalScenes and userRoomScenes.
//
// # Execution
//
// Engine.Execute applies the whole action list inside one
// device.Registry.Update, so no reader sees a half-applied scene. Later
// actions win over earlier ones. After the scene is applied the engine
// broadcasts a scene.executed event and, when a publisher is set, announces
// the activation on MQTT. Neither is waited for.
//
// # Thread Safety
//
// Engine is safe for concurrent use from multiple goroutines.
package automation
