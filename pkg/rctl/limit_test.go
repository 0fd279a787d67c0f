//go:build unit || !integration

package rctl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLimitAmounts(t *testing.T) {
	testcases := []struct {
		input string
		want  uint64
	}{
		{"0", 0},
		{"100", 100},
		{"1k", 1024},
		{"1m", 1024 * 1024},
		{"100m", 100 * 1024 * 1024},
		{"1g", 1024 * 1024 * 1024},
		{"1t", 1 << 40},
		{"1p", 1 << 50},
		{"1e", 1 << 60},
		{"15e", 15 << 60},
		{" 1G ", 1 << 30},
		// The suffix scanner splits on the first suffix letter and
		// ignores the rest, so this is 1m.
		{"1m2", 1024 * 1024},
		{"0z", 0},
	}
	for _, tc := range testcases {
		limit, err := ParseLimit(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		require.Equal(t, NewLimit(tc.want), limit)
	}
}

func TestParseLimitErrors(t *testing.T) {
	for _, bad := range []string{"", "k", "bogus", "9q", "-1", "1.5g", "/user"} {
		_, err := ParseLimit(bad)
		require.ErrorIs(t, err, ErrInvalidLimitLiteral, "input %q", bad)
	}

	// Anything past 2^64-1 cannot be represented.
	for _, bad := range []string{"16e", "1z", "1y", "99999999999999999999"} {
		_, err := ParseLimit(bad)
		require.ErrorIs(t, err, ErrInvalidLimitLiteral, "input %q", bad)
	}

	_, err := ParseLimit("100m/bogus")
	require.ErrorIs(t, err, ErrUnknownSubjectType)

	_, err = ParseLimit("100m/user/x")
	require.ErrorIs(t, err, ErrLimitBogusData)
}

func TestParseLimitPerSubject(t *testing.T) {
	limit, err := ParseLimit("100m/process")
	require.NoError(t, err)
	require.Equal(t, NewLimitPer(100*1024*1024, SubjectTypeProcess), limit)
	require.Equal(t, "100m/process", limit.String())

	limit, err = ParseLimit("100m/user")
	require.NoError(t, err)
	require.Equal(t, NewLimitPer(100*1024*1024, SubjectTypeUser), limit)

	per, ok := limit.Per()
	require.True(t, ok)
	require.Equal(t, SubjectTypeProcess, per)

	_, ok = NewLimit(1).Per()
	require.False(t, ok)
}

func TestLimitString(t *testing.T) {
	testcases := []struct {
		amount uint64
		want   string
	}{
		{0, "0"},
		{1, "1"},
		{1023, "1023"},
		{1024, "1k"},
		{1536, "1536"},
		{2048, "2k"},
		{100 * 1024 * 1024, "100m"},
		{1 << 30, "1g"},
		{1 << 40, "1t"},
		{1 << 50, "1p"},
		{1 << 60, "1e"},
		{3 << 30, "3g"},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.want, NewLimit(tc.amount).String())
	}
}

func TestLimitRoundTrip(t *testing.T) {
	amounts := []uint64{
		0, 1, 42, 1023, 1024, 1025, 1536, 2048,
		100 * 1024 * 1024, 1 << 30, 1<<30 + 1, 1 << 40, 1 << 60, 15 << 60,
		18446744073709551615,
	}
	for _, amount := range amounts {
		rendered := NewLimit(amount).String()
		parsed, err := ParseLimit(rendered)
		require.NoError(t, err, "rendered %q", rendered)
		require.Equal(t, NewLimit(amount), parsed, "rendered %q", rendered)
	}
}
