package input

import (
	"github.com/go-vgo/robotgo"
	"github.com/pkg/errors"
)

// Dispatcher delivers an action's input effect.
type Dispatcher interface {
	Dispatch(a Action) error
}

// RobotDispatcher injects OS-level mouse and keyboard events via robotgo.
type RobotDispatcher struct{}

// Dispatch implements Dispatcher.
func (RobotDispatcher) Dispatch(a Action) error {
	switch a.Kind {
	case KindKey:
		return errors.Wrapf(robotgo.KeyTap(a.Key), "tap key %q", a.Key)
	case KindClick:
		robotgo.Click(a.Button)
		return nil
	case KindMouseMove:
		robotgo.MoveRelative(a.DX, a.DY)
		return nil
	default:
		return errors.Errorf("robot dispatcher cannot handle action kind %q", a.Kind)
	}
}

// Router sends command actions to one dispatcher and everything else to
// another.
type Router struct {
	OS      Dispatcher
	Command Dispatcher
}

// Dispatch implements Dispatcher.
func (r *Router) Dispatch(a Action) error {
	if a.Kind == KindCommand {
		return r.Command.Dispatch(a)
	}
	return r.OS.Dispatch(a)
}
