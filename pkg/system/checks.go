package system

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/jailmon-project/jailmon/pkg/rctl"
)

// EnsureRoot verifies that the process runs with an effective UID of 0.
// Reading resource accounting state from the kernel is a privileged
// operation, so refusing early gives a clearer error than the kernel's
// EPERM later on.
func EnsureRoot() error {
	if euid := os.Geteuid(); euid != 0 {
		return fmt.Errorf("must be run as root, but effective uid is %d", euid)
	}
	return nil
}

// EnsureRACCT verifies that kernel resource accounting is present and
// switched on before we start serving. The message tells the operator how
// to fix the situation rather than just that it is broken.
func EnsureRACCT() error {
	return racctStateError(rctl.CheckState())
}

func racctStateError(state rctl.State) error {
	switch state {
	case rctl.StateEnabled:
		return nil
	case rctl.StateDisabled:
		return errors.New("RACCT/RCTL present, but disabled; enable using kern.racct.enable=1 tunable")
	case rctl.StateJailed:
		// Running jailed is untested rather than impossible; nested jail
		// accounting is not visible from inside.
		return errors.New("RACCT/RCTL is not available within a jail")
	default:
		return errors.New("RACCT/RCTL support not present in kernel; see rctl(8) for details")
	}
}
