package session

// State represents the combined connection and power state.
type State uint8

const (
	// StateDisconnected indicates no active connection.
	StateDisconnected State = iota

	// StateConnecting indicates a connection attempt is in progress.
	StateConnecting

	// StateConnectedAsleep indicates an active connection to a toy
	// that has not been woken.
	StateConnectedAsleep

	// StateConnectedAwake indicates an active connection to a woken
	// toy. Commands are only accepted in this state.
	StateConnectedAwake
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnectedAsleep:
		return "CONNECTED_ASLEEP"
	case StateConnectedAwake:
		return "CONNECTED_AWAKE"
	default:
		return "UNKNOWN"
	}
}

// Connected reports whether the state has a bound transport connection.
func (s State) Connected() bool {
	return s == StateConnectedAsleep || s == StateConnectedAwake
}
