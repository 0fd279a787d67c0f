//go:build unit || !integration

package system

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jailmon-project/jailmon/pkg/logger"
	"github.com/jailmon-project/jailmon/pkg/rctl"
)

func TestEnsureRoot(t *testing.T) {
	logger.ConfigureTestLogging(t)

	err := EnsureRoot()
	if os.Geteuid() == 0 {
		require.NoError(t, err)
	} else {
		require.Error(t, err)
		require.Contains(t, err.Error(), "must be run as root")
	}
}

func TestRACCTStateErrors(t *testing.T) {
	logger.ConfigureTestLogging(t)

	testCases := []struct {
		name     string
		state    rctl.State
		contains string
	}{
		{"enabled", rctl.StateEnabled, ""},
		{"disabled", rctl.StateDisabled, "kern.racct.enable=1"},
		{"jailed", rctl.StateJailed, "within a jail"},
		{"not present", rctl.StateNotPresent, "see rctl(8)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := racctStateError(tc.state)
			if tc.contains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.contains)
		})
	}
}
