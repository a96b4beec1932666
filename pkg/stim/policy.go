package stim

import "fmt"

// Policy decides what the loop does when a transfer fails.
type Policy int

// Policies.
const (
	// PolicyStrict drives the outputs to the safe state and stops.
	PolicyStrict Policy = iota
	// PolicyBestEffort logs the failure and keeps cycling.
	PolicyBestEffort
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p == PolicyBestEffort {
		return "best-effort"
	}
	return "strict"
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "strict", "":
		return PolicyStrict, nil
	case "best-effort", "besteffort":
		return PolicyBestEffort, nil
	}
	return PolicyStrict, fmt.Errorf("invalid policy %q", s)
}

// State is the lifecycle state of the loop.
type State int32

// States.
const (
	StateIdle State = iota
	StateRunning
	StateStopped
	StateFaulted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFaulted:
		return "faulted"
	}
	return "idle"
}
