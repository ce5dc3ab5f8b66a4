package automation

import "errors"

// Domain errors for the automation package.
//
//	if errors.Is(err, automation.ErrSceneNotFound) {
//	    // handle not found case
//	}
var (
	// ErrSceneNotFound is returned when a scene ID does not exist in the
	// catalogs searched.
	ErrSceneNotFound = errors.New("scene: not found")

	// ErrInvalidScene is returned when scene validation fails.
	ErrInvalidScene = errors.New("scene: invalid")

	// ErrInvalidAction is returned when a scene action is invalid.
	ErrInvalidAction = errors.New("scene: invalid action")

	// ErrInvalidName is returned when a scene name is empty or too long.
	ErrInvalidName = errors.New("scene: invalid name")

	// ErrNoActions is returned when a scene has no actions defined.
	ErrNoActions = errors.New("scene: no actions")

	// ErrUnknownProperty is returned for an action property outside the
	// command set.
	ErrUnknownProperty = errors.New("scene: unknown property")

	// ErrUnknownRoom is returned when a user scene is created for a room
	// that does not exist.
	ErrUnknownRoom = errors.New("scene: unknown room")
)
