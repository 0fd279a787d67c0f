//go:build freebsd

package rctl

import (
	"golang.org/x/sys/unix"
)

const (
	sysctlJailed      = "security.jail.jailed"
	sysctlRacctEnable = "kern.racct.enable"
)

// CheckState probes the kernel for RACCT/RCTL availability. The jail check
// comes first: inside a jail the rctl syscalls are off limits no matter how
// the host kernel is configured.
func CheckState() State {
	jailed, err := unix.SysctlUint32(sysctlJailed)
	if err != nil || jailed != 0 {
		return StateJailed
	}

	value, err := racctEnable()
	switch {
	case err != nil:
		return StateNotPresent
	case value == 1:
		return StateEnabled
	default:
		return StateDisabled
	}
}

// racctEnable reads kern.racct.enable, which is a single byte on FreeBSD 13
// and later and a full-width int on older kernels.
func racctEnable() (uint32, error) {
	if value, err := unix.SysctlUint32(sysctlRacctEnable); err == nil {
		return value, nil
	}
	raw, err := unix.SysctlRaw(sysctlRacctEnable)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, unix.EIO
	}
	return uint32(raw[0]), nil
}
