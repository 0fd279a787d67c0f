package rctl

// State is the kernel's RACCT/RCTL availability as probed through sysctl.
type State int

const (
	// StateDisabled means the kernel supports racct but accounting is
	// switched off. Boot with kern.racct.enable=1 to turn it on.
	StateDisabled State = iota
	// StateEnabled means resource accounting is live.
	StateEnabled
	// StateNotPresent means the kernel was built without RACCT/RCTL.
	StateNotPresent
	// StateJailed means we are running inside a jail, where the rctl
	// interface is not available.
	StateJailed
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	case StateNotPresent:
		return "not present"
	case StateJailed:
		return "not available in a jail"
	default:
		return "unknown"
	}
}

// IsEnabled reports whether rctl requests can be served right now.
func (s State) IsEnabled() bool {
	return s == StateEnabled
}
