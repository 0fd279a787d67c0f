//go:build unit || !integration

package rctl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUsage(t *testing.T) {
	usage, err := ParseUsage("cputime=123,memoryuse=1048576,maxproc=7")
	require.NoError(t, err)
	require.Equal(t, Usage{
		ResourceCPUTime:      123,
		ResourceMemoryUse:    1048576,
		ResourceMaxProcesses: 7,
	}, usage)
}

func TestParseUsageEmpty(t *testing.T) {
	// A subject with no accounting entries reports nothing at all, and
	// that is not an error.
	usage, err := ParseUsage("")
	require.NoError(t, err)
	require.NotNil(t, usage)
	require.Empty(t, usage)
}

func TestParseUsageLastValueWins(t *testing.T) {
	usage, err := ParseUsage("cputime=1,cputime=2")
	require.NoError(t, err)
	require.Equal(t, Usage{ResourceCPUTime: 2}, usage)
}

func TestParseUsageFullResponse(t *testing.T) {
	// The shape of a real rctl_get_racct response for a jail.
	response := "cputime=121,datasize=17682432,stacksize=1032192,coredumpsize=0," +
		"memoryuse=99418112,memorylocked=0,maxproc=19,openfiles=330," +
		"vmemoryuse=551149568,pseudoterminals=0,swapuse=0,nthr=26," +
		"msgqqueued=0,msgqsize=0,nmsgq=0,nsem=0,nsemop=0,nshm=0,shmsize=0," +
		"wallclock=2862,pcpu=0,readbps=0,writebps=0,readiops=0,writeiops=0"

	usage, err := ParseUsage(response)
	require.NoError(t, err)
	require.Len(t, usage, 25)
	require.Equal(t, uint64(121), usage[ResourceCPUTime])
	require.Equal(t, uint64(2862), usage[ResourceWallclock])
	require.Equal(t, uint64(99418112), usage[ResourceMemoryUse])
	require.Equal(t, uint64(330), usage[ResourceOpenFiles])
}

func TestParseUsageErrors(t *testing.T) {
	testcases := []struct {
		input string
		want  error
	}{
		{"cputime", ErrInvalidStatistics},
		{"cputime=1,maxproc", ErrInvalidStatistics},
		{"cputime=1,", ErrInvalidStatistics},
		{"cputime=bogus", ErrInvalidNumeral},
		{"cputime=", ErrInvalidNumeral},
		{"cputime=-1", ErrInvalidNumeral},
		{"bogus=1", ErrUnknownResource},
		{"=1", ErrUnknownResource},
	}
	for _, tc := range testcases {
		_, err := ParseUsage(tc.input)
		require.ErrorIs(t, err, tc.want, "input %q", tc.input)
	}
}
