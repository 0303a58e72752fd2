package input

import "sync"

// Recorder is a Dispatcher that records dispatched actions for tests.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
	Err     error // returned from every Dispatch when set
}

// Dispatch implements Dispatcher.
func (r *Recorder) Dispatch(a Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	return r.Err
}

// Actions returns a copy of everything dispatched so far.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}
