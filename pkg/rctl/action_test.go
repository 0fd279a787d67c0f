//go:build unit || !integration

package rctl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	testcases := []struct {
		input string
		want  Action
	}{
		{"deny", ActionDeny},
		{"log", ActionLog},
		{"devctl", ActionDevCtl},
		{"throttle", ActionThrottle},
		{"sigterm", ActionSignal(SIGTERM)},
		{"sigkill", ActionSignal(SIGKILL)},
		{"sighup", ActionSignal(SIGHUP)},
	}
	for _, tc := range testcases {
		action, err := ParseAction(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		require.Equal(t, tc.want, action)
		require.Equal(t, tc.input, action.String())
	}
}

func TestParseActionErrors(t *testing.T) {
	// Signals are spelled by name in the grammar, never by number.
	for _, bad := range []string{"", "sig9", "sig15", "kill", "DENY", "sigfoo", "sigterm9"} {
		_, err := ParseAction(bad)
		require.ErrorIs(t, err, ErrUnknownAction, "input %q", bad)
	}
}

func TestSignalRoundTrip(t *testing.T) {
	count := 0
	for sig := Signal(1); sig < signalDone; sig++ {
		name := sig.String()
		require.NotEmpty(t, name)

		parsed, err := ParseSignal(name)
		require.NoError(t, err)
		require.Equal(t, sig, parsed)

		action, err := ParseAction(name)
		require.NoError(t, err)
		require.Equal(t, ActionSignal(sig), action)
		count++
	}
	require.Equal(t, 31, count)
}

func TestSignalNumbering(t *testing.T) {
	// Spot-check the FreeBSD numbering, which differs from Linux in the
	// upper range.
	require.Equal(t, Signal(7), SIGEMT)
	require.Equal(t, Signal(9), SIGKILL)
	require.Equal(t, Signal(10), SIGBUS)
	require.Equal(t, Signal(12), SIGSYS)
	require.Equal(t, Signal(15), SIGTERM)
	require.Equal(t, Signal(19), SIGCONT)
	require.Equal(t, Signal(20), SIGCHLD)
	require.Equal(t, Signal(23), SIGIO)
	require.Equal(t, Signal(29), SIGINFO)
	require.Equal(t, Signal(30), SIGUSR1)
	require.Equal(t, Signal(31), SIGUSR2)
}
