package automation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation constants for user scenes, matching the scene editor.
const (
	maxNameLength        = 30
	maxDescriptionLength = 200
	maxActions           = 100

	// DefaultIcon is used for user scenes saved without an icon.
	DefaultIcon = "🎬"
)

// ValidateAction checks that an action selects devices and writes a known
// property.
func ValidateAction(a Action) error {
	if a.DeviceType == "" && a.Device == "" {
		return fmt.Errorf("%w: needs deviceType or device", ErrInvalidAction)
	}
	if a.DeviceType != "" && !a.DeviceType.Valid() {
		return fmt.Errorf("%w: unknown device type %q", ErrInvalidAction, a.DeviceType)
	}
	if _, err := a.Command(); err != nil {
		return err
	}
	return nil
}

// ValidateName checks a scene name: not blank, at most 30 characters.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateScene checks a user scene before it is stored.
func ValidateScene(s *Scene) error {
	if s == nil {
		return ErrInvalidScene
	}
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	if utf8.RuneCountInString(s.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidScene, maxDescriptionLength)
	}
	if len(s.Actions) == 0 {
		return ErrNoActions
	}
	if len(s.Actions) > maxActions {
		return fmt.Errorf("%w: exceeds maximum of %d actions", ErrInvalidAction, maxActions)
	}
	for i, a := range s.Actions {
		if err := ValidateAction(a); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}

// normalise trims the name and fills in the default icon.
func normalise(s *Scene) {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	if strings.TrimSpace(s.Icon) == "" {
		s.Icon = DefaultIcon
	}
}
