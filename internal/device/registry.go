package device

import (
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
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

// Registry is the in-memory store of rooms, their devices and the system
// configuration.
//
// Every read returns deep copies and every mutation runs under a single
// write lock, so a batch applied through Update is never observed half
// done. All public methods are thread-safe.
type Registry struct {
	mu     sync.RWMutex
	rooms  []*Room
	index  map[string]*Room
	config SystemConfig
	logger Logger
}

// NewRegistry creates a Registry holding rooms in the given order.
// Later rooms with a duplicate id are dropped.
func NewRegistry(rooms []*Room, cfg SystemConfig) *Registry {
	r := &Registry{
		index:  make(map[string]*Room, len(rooms)),
		config: normaliseConfig(cfg),
		logger: noopLogger{},
	}
	for _, room := range rooms {
		if _, dup := r.index[room.ID]; dup {
			continue
		}
		cpy := room.DeepCopy()
		r.rooms = append(r.rooms, cpy)
		r.index[cpy.ID] = cpy
	}
	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

func normaliseConfig(cfg SystemConfig) SystemConfig {
	cfg.MinDimLevel = clampInt(cfg.MinDimLevel, MinLevel, MaxLevel)
	return cfg
}

// ─── Reads ──────────────────────────────────────────────────────────

// Rooms returns copies of all rooms in display order.
func (r *Registry) Rooms() []*Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Room, len(r.rooms))
	for i, room := range r.rooms {
		out[i] = room.DeepCopy()
	}
	return out
}

// RoomIDs returns every room id in display order.
func (r *Registry) RoomIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.rooms))
	for i, room := range r.rooms {
		ids[i] = room.ID
	}
	return ids
}

// Room returns a copy of the room with the given id.
func (r *Registry) Room(id string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return room.DeepCopy(), nil
}

// Device returns a copy of the named device in the room.
func (r *Registry) Device(roomID, name string) (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, d, err := r.lookup(roomID, name)
	if err != nil {
		return nil, err
	}
	return d.clone(), nil
}

// SystemConfig returns the current system configuration.
func (r *Registry) SystemConfig() SystemConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// Summaries returns the overview of every room in display order.
func (r *Registry) Summaries() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Summary, len(r.rooms))
	for i, room := range r.rooms {
		out[i] = Summarize(room, r.config)
	}
	return out
}

// Summary returns the overview of one room.
func (r *Registry) Summary(roomID string) (Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.index[roomID]
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return Summarize(room, r.config), nil
}

// lookup must be called with r.mu held.
func (r *Registry) lookup(roomID, name string) (*Room, Device, error) {
	room, ok := r.index[roomID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	d := room.Find(name)
	if d == nil {
		return nil, nil, fmt.Errorf("%w: %s/%s", ErrDeviceNotFound, roomID, name)
	}
	return room, d, nil
}

// ─── Mutations ──────────────────────────────────────────────────────

// UpdateSystemConfig replaces the system configuration. MinDimLevel is
// clamped to [0,255]. The stored value is returned.
func (r *Registry) UpdateSystemConfig(cfg SystemConfig) SystemConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.config = normaliseConfig(cfg)
	r.logger.Info("system config updated", "heating", r.config.Heating, "min_dim_level", r.config.MinDimLevel)
	return r.config
}

// mutate runs fn on the live device under the write lock and returns a copy
// of the result.
func (r *Registry) mutate(roomID, name string, fn func(d Device) error) (Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, d, err := r.lookup(roomID, name)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	return d.clone(), nil
}

// Toggle flips a light, dimmer or RGB light, applying smart-on.
func (r *Registry) Toggle(roomID, name string) (Device, error) {
	return r.mutate(roomID, name, func(d Device) error {
		s, ok := d.(Switchable)
		if !ok {
			return fmt.Errorf("%w: toggle %s", ErrWrongDeviceType, d.Type())
		}
		s.Toggle(r.config.MinDimLevel)
		return nil
	})
}

// SetDimmer sets the brightness of a dimmer or RGB light.
func (r *Registry) SetDimmer(roomID, name string, level int) (Device, error) {
	return r.mutate(roomID, name, func(d Device) error {
		dm, ok := d.(Dimmable)
		if !ok {
			return fmt.Errorf("%w: dim %s", ErrWrongDeviceType, d.Type())
		}
		dm.SetDimmer(level)
		return nil
	})
}

// SetColorFromHue sets an RGB light to the colour of hue and switches it on.
func (r *Registry) SetColorFromHue(roomID, name string, hue float64) (Device, error) {
	return r.mutate(roomID, name, func(d Device) error {
		c, ok := d.(Colorable)
		if !ok {
			return fmt.Errorf("%w: colour %s", ErrWrongDeviceType, d.Type())
		}
		c.SetColorFromHue(hue)
		return nil
	})
}

// Hue returns the hue of an RGB light's stored colour.
func (r *Registry) Hue(roomID, name string) (int, error) {
	d, err := r.Device(roomID, name)
	if err != nil {
		return 0, err
	}
	c, ok := d.(Colorable)
	if !ok {
		return 0, fmt.Errorf("%w: hue of %s", ErrWrongDeviceType, d.Type())
	}
	return HueFromColor(c.Color()), nil
}

// DriveBlind moves a blind by steps drive steps. atBound reports whether
// the blind reached the end of travel in that direction.
func (r *Registry) DriveBlind(roomID, name string, dir Direction, steps int) (d Device, atBound bool, err error) {
	d, err = r.mutate(roomID, name, func(dev Device) error {
		b, ok := dev.(*Blind)
		if !ok {
			return fmt.Errorf("%w: drive %s", ErrWrongDeviceType, dev.Type())
		}
		var driveErr error
		atBound, driveErr = b.Drive(dir, steps)
		return driveErr
	})
	return d, atBound, err
}

// SetHeatingTarget sets the room's target temperature, clamped to [15,25]
// and rounded to one decimal.
func (r *Registry) SetHeatingTarget(roomID string, target float64) (*Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.index[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	room.SetHeatingTarget(target)
	return room.DeepCopy(), nil
}

// Tx gives direct access to the live rooms during Update.
type Tx struct {
	reg *Registry
}

// Rooms returns the live rooms in display order.
func (tx *Tx) Rooms() []*Room { return tx.reg.rooms }

// Room returns the live room, or nil.
func (tx *Tx) Room(id string) *Room { return tx.reg.index[id] }

// Config returns the system configuration.
func (tx *Tx) Config() SystemConfig { return tx.reg.config }

// Update runs fn with exclusive access to the live rooms. Nothing can read
// the Registry until fn returns. fn must not retain the rooms or devices.
func (r *Registry) Update(fn func(tx *Tx)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&Tx{reg: r})
}
