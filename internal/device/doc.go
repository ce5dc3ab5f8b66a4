// Package device holds the dashboard's home model: rooms, their devices and
// the system configuration, plus the mutators that change device state.
//
// A Device is one of five variants:
//
//	*Light     on/off
//	*Dimmer    on/off + brightness 0-255
//	*RGBLight  on/off + brightness + colour
//	*Blind     position 0 (open) to 100 (closed), travel duration
//	*Heating   uses the room's target/current temperature
//
// Operations are expressed against capability interfaces (Switchable,
// Dimmable, Colorable) so that dimming a plain light is a type error for
// callers that hold a concrete variant, and ErrWrongDeviceType for callers
// that look a device up by name.
//
// The Registry owns the live state. It is created once from SeedRooms and
// passed explicitly to the automation engine, the API and the MQTT bridge.
// Blind drives run on the Driver, one goroutine per moving blind.
package device
