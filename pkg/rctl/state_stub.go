//go:build !freebsd

package rctl

// CheckState probes the kernel for RACCT/RCTL availability. Off FreeBSD
// there is nothing to probe.
func CheckState() State {
	return StateNotPresent
}
