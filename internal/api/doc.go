// Package api implements the HTTP REST API and WebSocket server for the
// dashboard core.
//
// This package provides:
//   - REST endpoints for rooms, device controls, heating and system settings
//   - scene listing, execution and user-scene management
//   - the key/value storage endpoints used by a remote persistence backend
//   - WebSocket hub for real-time device and scene events
//   - Middleware stack (request ID, logging, recovery, CORS)
//
// # Architecture
//
// The API server sits between the dashboard UI and the device Registry.
// Device changes made here are announced through the bridge, which
// broadcasts them to WebSocket clients and forwards them to the home
// controller when MQTT is enabled. Pushed updates from the controller arrive
// over MQTT or as device.update messages on the WebSocket and take the same
// path into the Registry.
//
// # Graceful Degradation
//
// The server operates without MQTT: every endpoint works, changes are
// simply not forwarded.
package api
