// Package input maps confirmed gestures to synthetic mouse, keyboard and
// command input events.
package input

import "github.com/pkg/errors"

// Kind enumerates the supported action effects.
type Kind string

const (
	// KindKey taps a keyboard key.
	KindKey Kind = "key"
	// KindClick clicks a mouse button.
	KindClick Kind = "click"
	// KindMouseMove moves the cursor by a fixed delta.
	KindMouseMove Kind = "mouse_move"
	// KindCommand runs an external executable.
	KindCommand Kind = "command"
)

// Action binds a gesture label to an input effect. Bindings are static
// configuration, persisted in the store.
type Action struct {
	Gesture string
	Kind    Kind
	Key     string // key name for KindKey
	Button  string // mouse button for KindClick
	DX, DY  int    // cursor delta for KindMouseMove
	Command string // executable path for KindCommand
	// Continuous actions re-dispatch every frame while their gesture stays
	// active; edge-triggered actions fire once per confirmation.
	Continuous bool
	Enabled    bool
}

// Validate checks that the action is dispatchable.
func (a Action) Validate() error {
	if a.Gesture == "" {
		return errors.New("action gesture cannot be empty")
	}
	switch a.Kind {
	case KindKey:
		if a.Key == "" {
			return errors.Errorf("key action for %q needs a key name", a.Gesture)
		}
	case KindClick:
		if a.Button == "" {
			return errors.Errorf("click action for %q needs a button", a.Gesture)
		}
	case KindMouseMove:
		if a.DX == 0 && a.DY == 0 {
			return errors.Errorf("mouse move action for %q needs a non-zero delta", a.Gesture)
		}
	case KindCommand:
		if a.Command == "" {
			return errors.Errorf("command action for %q needs an executable", a.Gesture)
		}
	default:
		return errors.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}
