package automation

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nerrad567/homedash-core/internal/device"
	"github.com/nerrad567/homedash-core/internal/storage"
)

// Storage keys of the user catalogs.
const (
	KeyUserGlobalScenes = "userGlobalScenes"
	KeyUserRoomScenes   = "userRoomScenes"
)

// WebSocket channels the engine broadcasts on.
const (
	ChannelSceneExecuted = "scene.executed"
	ChannelSceneCreated  = "scene.created"
	ChannelSceneDeleted  = "scene.deleted"
)

// Logger defines the logging interface used by the Engine.
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

// WSHub is the interface for broadcasting WebSocket events.
// Broadcast must not block.
type WSHub interface {
	Broadcast(channel string, payload any)
}

// ActivationPublisher announces executed scenes to the home controller.
type ActivationPublisher interface {
	PublishSceneActivated(sceneID, sceneName, roomID string) error
}

// Recorder counts executed scenes.
type Recorder interface {
	SceneExecuted(scope Scope)
}

// Execution describes one applied scene.
type Execution struct {
	SceneID   string `json:"scene_id"`
	SceneName string `json:"scene_name"`
	RoomID    string `json:"room_id,omitempty"`
	// Writes is the number of device writes made.
	Writes int `json:"writes"`
}

// Engine holds the scene catalogs and applies scenes to the device
// Registry.
//
// Thread Safety: all methods are safe for concurrent use.
type Engine struct {
	devices *device.Registry
	store   *storage.Service
	logger  Logger

	hub       WSHub
	publisher ActivationPublisher
	recorder  Recorder
	newID     func() string

	mu         sync.RWMutex
	global     []Scene
	room       map[string][]Scene
	userGlobal []Scene
	userRoom   map[string][]Scene
}

// NewEngine creates an engine over the device Registry. store persists the
// user catalogs; call LoadUserScenes once before serving requests.
func NewEngine(devices *device.Registry, store *storage.Service, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		devices:  devices,
		store:    store,
		logger:   logger,
		newID:    func() string { return "user_" + uuid.NewString() },
		global:   PredefinedGlobalScenes(),
		room:     PredefinedRoomScenes(),
		userRoom: make(map[string][]Scene),
	}
}

// SetHub sets the WebSocket hub that receives scene events.
func (e *Engine) SetHub(hub WSHub) {
	e.mu.Lock()
	e.hub = hub
	e.mu.Unlock()
}

// SetPublisher sets the MQTT activation publisher.
func (e *Engine) SetPublisher(p ActivationPublisher) {
	e.mu.Lock()
	e.publisher = p
	e.mu.Unlock()
}

// SetRecorder sets the metrics recorder.
func (e *Engine) SetRecorder(r Recorder) {
	e.mu.Lock()
	e.recorder = r
	e.mu.Unlock()
}

// LoadUserScenes replaces the user catalogs with the persisted ones. A
// missing or unreadable document yields an empty catalog.
func (e *Engine) LoadUserScenes(ctx context.Context) {
	global := storage.Load(ctx, e.store, KeyUserGlobalScenes, []Scene{})
	rooms := storage.Load(ctx, e.store, KeyUserRoomScenes, map[string][]Scene{})
	if global == nil {
		global = []Scene{}
	}
	if rooms == nil {
		rooms = map[string][]Scene{}
	}

	e.mu.Lock()
	e.userGlobal = global
	e.userRoom = rooms
	e.mu.Unlock()

	total := len(global)
	for _, s := range rooms {
		total += len(s)
	}
	e.logger.Info("user scenes loaded", "global", len(global), "total", total)
}

// ─── Execution ──────────────────────────────────────────────────────

// Execute applies scene to the Registry. roomID is the room the scene runs
// in; it is used by actions without a room and may be empty for global
// scenes. Unknown rooms and devices, and commands that do not fit a device,
// are skipped.
//
// The whole action list is applied under one Registry update. The
// scene.executed notification and MQTT activation are sent afterwards
// without waiting.
func (e *Engine) Execute(scene Scene, roomID string) Execution {
	commands := make([]Command, len(scene.Actions))
	for i, a := range scene.Actions {
		cmd, err := a.Command()
		if err != nil {
			e.logger.Warn("scene action skipped", "scene_id", scene.ID, "action", i, "error", err)
			continue
		}
		commands[i] = cmd
	}

	writes := 0
	e.devices.Update(func(tx *device.Tx) {
		for i, a := range scene.Actions {
			if commands[i] == nil {
				continue
			}
			for _, room := range targetRooms(tx, a.Room, roomID) {
				for _, d := range room.Match(a.DeviceType, a.Device) {
					if commands[i].Apply(room, d) {
						writes++
					}
				}
			}
		}
	})

	exec := Execution{SceneID: scene.ID, SceneName: scene.Name, RoomID: roomID, Writes: writes}
	e.logger.Info("scene executed",
		"scene_id", scene.ID,
		"scene_name", scene.Name,
		"room_id", roomID,
		"writes", writes,
	)
	e.notifyExecuted(exec)
	return exec
}

// targetRooms resolves an action's room field.
func targetRooms(tx *device.Tx, actionRoom, contextRoom string) []*device.Room {
	switch actionRoom {
	case AllRooms:
		return tx.Rooms()
	case "":
		if contextRoom == "" {
			return nil
		}
		actionRoom = contextRoom
	}
	if r := tx.Room(actionRoom); r != nil {
		return []*device.Room{r}
	}
	return nil
}

func (e *Engine) notifyExecuted(exec Execution) {
	e.mu.RLock()
	hub, publisher, recorder := e.hub, e.publisher, e.recorder
	e.mu.RUnlock()

	if recorder != nil {
		scope := ScopeGlobal
		if exec.RoomID != "" {
			scope = ScopeRoom
		}
		recorder.SceneExecuted(scope)
	}
	if hub != nil {
		hub.Broadcast(ChannelSceneExecuted, exec)
	}
	if publisher != nil {
		go func() {
			if err := publisher.PublishSceneActivated(exec.SceneID, exec.SceneName, exec.RoomID); err != nil {
				e.logger.Warn("scene activation not published", "scene_id", exec.SceneID, "error", err)
			}
		}()
	}
}

// ExecuteByID looks the scene up and executes it. With an empty roomID the
// global catalogs are searched, otherwise the catalogs of that room.
func (e *Engine) ExecuteByID(sceneID, roomID string) (Execution, error) {
	scene, err := e.Scene(sceneID, roomID)
	if err != nil {
		return Execution{}, err
	}
	return e.Execute(*scene, roomID), nil
}

// ─── Catalogs ───────────────────────────────────────────────────────

// Scene returns a copy of the scene with the given id from the global
// catalogs (roomID empty) or the catalogs of roomID.
func (e *Engine) Scene(sceneID, roomID string) (*Scene, error) {
	var entries []Entry
	if roomID == "" {
		entries = e.GlobalScenes()
	} else {
		entries = e.RoomScenes(roomID)
	}
	for _, entry := range entries {
		if entry.ID == sceneID {
			return entry.Scene.DeepCopy(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, sceneID)
}

// GlobalScenes lists the predefined global scenes followed by the user
// global scenes.
func (e *Engine) GlobalScenes() []Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return merge(e.global, e.userGlobal)
}

// RoomScenes lists the predefined scenes of the room followed by its user
// scenes.
func (e *Engine) RoomScenes(roomID string) []Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return merge(e.room[roomID], e.userRoom[roomID])
}

// UserGlobalScenes returns copies of the user global scenes.
func (e *Engine) UserGlobalScenes() []Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return copyScenes(e.userGlobal)
}

// UserRoomScenes returns copies of the user room scenes keyed by room id.
func (e *Engine) UserRoomScenes() map[string][]Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return copyRoomScenes(e.userRoom)
}

func merge(predefined, user []Scene) []Entry {
	out := make([]Entry, 0, len(predefined)+len(user))
	for i := range predefined {
		out = append(out, Entry{Scene: *predefined[i].DeepCopy()})
	}
	for i := range user {
		out = append(out, Entry{Scene: *user[i].DeepCopy(), User: true})
	}
	return out
}

// ─── User scenes ────────────────────────────────────────────────────

// AddUserScene validates scene, gives it a fresh id and appends it to the
// user global catalog (roomID empty) or the room's user catalog. Both user
// catalogs are then persisted in the background; the returned Result
// reports the outcome and may be ignored.
func (e *Engine) AddUserScene(ctx context.Context, scene Scene, roomID string) (Scene, *storage.Result, error) {
	normalise(&scene)
	if err := ValidateScene(&scene); err != nil {
		return Scene{}, nil, err
	}
	if roomID != "" {
		if _, err := e.devices.Room(roomID); err != nil {
			return Scene{}, nil, fmt.Errorf("%w: %s", ErrUnknownRoom, roomID)
		}
	}

	scene = *scene.DeepCopy()
	scene.ID = e.newID()

	e.mu.Lock()
	if roomID == "" {
		e.userGlobal = append(e.userGlobal, scene)
	} else {
		e.userRoom[roomID] = append(e.userRoom[roomID], scene)
	}
	res := e.persistLocked(ctx)
	hub := e.hub
	e.mu.Unlock()

	e.logger.Info("user scene created", "scene_id", scene.ID, "name", scene.Name, "room_id", roomID)
	if hub != nil {
		hub.Broadcast(ChannelSceneCreated, map[string]any{
			"scene_id": scene.ID,
			"scope":    scopeOf(roomID),
			"room_id":  roomID,
		})
	}
	return *scene.DeepCopy(), res, nil
}

// DeleteUserScene removes the user scene with the given id from the user
// global catalog (roomID empty) or the room's user catalog. Predefined
// scenes cannot be deleted. It reports whether a scene was removed; when
// nothing matched nothing is persisted and the Result is already complete.
func (e *Engine) DeleteUserScene(ctx context.Context, sceneID, roomID string) (bool, *storage.Result) {
	e.mu.Lock()
	var removed bool
	if roomID == "" {
		e.userGlobal, removed = without(e.userGlobal, sceneID)
	} else if scenes, ok := e.userRoom[roomID]; ok {
		e.userRoom[roomID], removed = without(scenes, sceneID)
	}
	if !removed {
		e.mu.Unlock()
		e.logger.Debug("user scene not found for delete", "scene_id", sceneID, "room_id", roomID)
		return false, storage.Completed(nil)
	}
	res := e.persistLocked(ctx)
	hub := e.hub
	e.mu.Unlock()

	e.logger.Info("user scene deleted", "scene_id", sceneID, "room_id", roomID)
	if hub != nil {
		hub.Broadcast(ChannelSceneDeleted, map[string]any{
			"scene_id": sceneID,
			"scope":    scopeOf(roomID),
			"room_id":  roomID,
		})
	}
	return true, res
}

func scopeOf(roomID string) Scope {
	if roomID == "" {
		return ScopeGlobal
	}
	return ScopeRoom
}

func without(scenes []Scene, id string) ([]Scene, bool) {
	i := slices.IndexFunc(scenes, func(s Scene) bool { return s.ID == id })
	if i < 0 {
		return scenes, false
	}
	return slices.Delete(slices.Clone(scenes), i, i+1), true
}

// persistLocked snapshots both user catalogs and saves them. e.mu must be
// held so snapshots are submitted in mutation order.
func (e *Engine) persistLocked(ctx context.Context) *storage.Result {
	global := copyScenes(e.userGlobal)
	rooms := copyRoomScenes(e.userRoom)
	return storage.Join(
		e.store.Save(ctx, KeyUserGlobalScenes, global),
		e.store.Save(ctx, KeyUserRoomScenes, rooms),
	)
}
