// Package policy converts a noisy per-frame label stream into discrete,
// intentional action triggers.
package policy

// NoGesture is the label emitted when no hand is found or the prediction is
// below the configured confidence.
const NoGesture = "no_gesture"

// State is the debouncer's position in its state machine.
type State int

const (
	// StateIdle means no gesture is being tracked.
	StateIdle State = iota
	// StateCandidate means a gesture is accumulating confirmations.
	StateCandidate
	// StateActive means a gesture has been confirmed and dispatched.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCandidate:
		return "candidate"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Config holds the debounce thresholds.
type Config struct {
	// ConfirmThreshold is the number of consecutive identical labels
	// required before a gesture becomes active and its action fires.
	ConfirmThreshold int
	// IdleThreshold is the number of consecutive no-gesture frames after
	// which the machine resets to idle.
	IdleThreshold int
}

// DefaultConfig matches the stock pipeline configuration.
func DefaultConfig() Config {
	return Config{ConfirmThreshold: 3, IdleThreshold: 4}
}

// Decision is the outcome of observing one frame's label.
type Decision struct {
	// Dispatch is set when the action bound to Label should fire now.
	Dispatch bool
	Label    string
}

// Debouncer is the per-frame state machine. It is not safe for concurrent
// use; the live loop owns it.
type Debouncer struct {
	cfg        Config
	continuous func(label string) bool

	state   State
	label   string
	count   int
	idleRun int
}

// NewDebouncer creates a Debouncer. The continuous callback reports whether
// a label's action re-dispatches every frame while active (e.g. cursor
// movement); nil means all actions are edge-triggered.
func NewDebouncer(cfg Config, continuous func(label string) bool) *Debouncer {
	if cfg.ConfirmThreshold < 1 {
		cfg.ConfirmThreshold = 1
	}
	if cfg.IdleThreshold < 1 {
		cfg.IdleThreshold = 1
	}
	return &Debouncer{cfg: cfg, continuous: continuous}
}

// State returns the current machine state.
func (d *Debouncer) State() State {
	return d.state
}

// Reset returns the machine to idle.
func (d *Debouncer) Reset() {
	d.state = StateIdle
	d.label = ""
	d.count = 0
	d.idleRun = 0
}

// Observe feeds one frame's label through the machine.
//
// A run of IdleThreshold consecutive no-gesture labels resets to idle;
// shorter runs leave the current state untouched so brief segmentation
// dropouts do not cancel a candidate. A confirmed gesture dispatches once on
// the frame that reaches ConfirmThreshold, and again every frame only while
// it stays active and its action is continuous.
func (d *Debouncer) Observe(label string) Decision {
	if label == NoGesture {
		d.idleRun++
		if d.idleRun >= d.cfg.IdleThreshold {
			d.Reset()
		}
		return Decision{}
	}
	d.idleRun = 0

	switch d.state {
	case StateIdle:
		return d.startCandidate(label)

	case StateCandidate:
		if label != d.label {
			return d.startCandidate(label)
		}
		d.count++
		if d.count >= d.cfg.ConfirmThreshold {
			d.state = StateActive
			return Decision{Dispatch: true, Label: label}
		}
		return Decision{}

	case StateActive:
		if label != d.label {
			return d.startCandidate(label)
		}
		// Edge-triggered by default; continuous actions re-fire every frame.
		if d.continuous != nil && d.continuous(label) {
			return Decision{Dispatch: true, Label: label}
		}
		return Decision{}
	}

	return Decision{}
}

func (d *Debouncer) startCandidate(label string) Decision {
	d.state = StateCandidate
	d.label = label
	d.count = 1
	if d.count >= d.cfg.ConfirmThreshold {
		d.state = StateActive
		return Decision{Dispatch: true, Label: label}
	}
	return Decision{}
}
