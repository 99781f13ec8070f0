package session

import "sync"

// Session holds the state of one image and applies commands one at a time.
type Session struct {
	mu    sync.Mutex
	state State
}

// New creates a session for an image with the given aspect ratio.
func New(ratio float64) *Session {
	return &Session{state: NewState(ratio)}
}

// Dispatch applies cmd to the current state. A rejected command leaves the
// state untouched.
func (s *Session) Dispatch(cmd Command) (State, []Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, events, err := Apply(s.state, cmd)
	if err != nil {
		return s.state, nil, err
	}
	s.state = next
	return next, events, nil
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
