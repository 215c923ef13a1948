package session

import "fmt"

// State is the lifecycle position of an Engine.
type State int

// Engine states
const (
	StateIdle State = iota
	StateInProgress
	StateComplete
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "in_progress":
		*s = StateInProgress
	case "complete":
		*s = StateComplete
	default:
		return fmt.Errorf("unknown session state %q", text)
	}
	return nil
}
