package launcher

import "fmt"

// State is a step of a launcher run
type State int

const (
	// StateIdle - constructed, not yet running
	StateIdle State = iota
	// StateReading - loading the mode file
	StateReading
	// StateParsing - decoding the mode file
	StateParsing
	// StateLaunching - spawning the mode's applications
	StateLaunching
	// StateWaiting - applications running, processing exits
	StateWaiting
	// StateDone - every launched application exited (terminal)
	StateDone
	// StateFailed - the run ended with a fatal error (terminal)
	StateFailed
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateReading:
		return "Reading"
	case StateParsing:
		return "Parsing"
	case StateLaunching:
		return "Launching"
	case StateWaiting:
		return "Waiting"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// transitions lists the allowed successors of each state. Waiting may fail
// when a bounded or interrupted wait ends with applications still running.
var transitions = map[State][]State{
	StateIdle:      {StateReading},
	StateReading:   {StateParsing, StateFailed},
	StateParsing:   {StateLaunching, StateFailed},
	StateLaunching: {StateWaiting, StateFailed},
	StateWaiting:   {StateDone, StateFailed},
}

// CanTransition reports whether from -> to is allowed
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// validateTransition returns an error for a disallowed transition
func validateTransition(from, to State) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid state transition %s -> %s", from, to)
	}
	return nil
}
