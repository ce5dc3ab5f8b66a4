// Package bridge connects the dashboard core to the home controller over
// MQTT.
//
// Inbound, the controller pushes device changes to
// homedash/state/{room}/{device} with a {"property", "value"} payload. Each
// one is applied to the device Registry through the scene command set and
// re-broadcast to WebSocket clients as a device.updated event.
//
// Outbound, the bridge announces scene activations on
// homedash/core/scene/{id}/activated and forwards changes made through the
// dashboard on homedash/core/device/{room}/{device}/set.
//
// The bridge also works without a broker: Apply and Announce only need the
// engine and the hub, so the HTTP and WebSocket surfaces share the same
// push-update path whether MQTT is enabled or not.
package bridge
