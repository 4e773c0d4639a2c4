package pipeline

import "fmt"

// State is a stage of a build run. Runs only move forward.
type State int

const (
	// Pending is the zero State: the run has not entered any stage yet.
	Pending State = iota
	Gathering
	Building
	Validating
	Published
	Rejected
)

var stateNames = [...]string{
	Pending:    "pending",
	Gathering:  "gathering",
	Building:   "building",
	Validating: "validating",
	Published:  "published",
	Rejected:   "rejected",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether the run is over.
func (s State) Terminal() bool {
	return s == Published || s == Rejected
}

// machine guards transitions.
type machine struct {
	state State
}

// advance moves to next. Any state may reject; otherwise only the next
// stage in order is reachable, and terminal states are final.
func (m *machine) advance(next State) error {
	cur := m.state
	switch {
	case cur.Terminal():
		return fmt.Errorf("pipeline: run already %s, cannot enter %s", cur, next)
	case next == Rejected:
	case cur == Validating && next == Published:
	case next == cur+1 && next != Published:
	default:
		return fmt.Errorf("pipeline: illegal transition %s -> %s", cur, next)
	}
	m.state = next
	return nil
}
