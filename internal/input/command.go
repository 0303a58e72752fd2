package input

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

// CommandDispatcher runs an action's external executable with the gesture
// name as its only argument, bounded by a timeout so a stuck command cannot
// stall the frame loop's dispatch path.
type CommandDispatcher struct {
	timeout time.Duration
}

// NewCommandDispatcher creates a CommandDispatcher with the given timeout.
func NewCommandDispatcher(timeout time.Duration) *CommandDispatcher {
	return &CommandDispatcher{timeout: timeout}
}

// Dispatch implements Dispatcher.
func (d *CommandDispatcher) Dispatch(a Action) error {
	if a.Kind != KindCommand {
		return errors.Errorf("command dispatcher cannot handle action kind %q", a.Kind)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.Command, a.Gesture)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Errorf("command %s timed out after %s", a.Command, d.timeout)
	}
	if err != nil {
		if stderr.Len() > 0 {
			return errors.Wrapf(err, "command %s failed: %s", a.Command, stderr.String())
		}
		return errors.Wrapf(err, "command %s failed", a.Command)
	}
	return nil
}
