//go:build unit || !integration

package jailmon

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jailmon-project/jailmon/pkg/rctl"
)

type UsageSuite struct {
	BaseSuite
}

func TestUsageSuite(t *testing.T) {
	suite.Run(t, new(UsageSuite))
}

func (s *UsageSuite) TestRejectsBadSubject() {
	_, _, err := ExecuteTestCobraCommand("usage", "frog:www")
	require.Error(s.T(), err)
	require.ErrorIs(s.T(), err, rctl.ErrUnknownSubjectType)
}

func (s *UsageSuite) TestRejectsFilterGrammar() {
	// A bare subject type is a filter, not a subject; usage wants one
	// concrete entity.
	_, _, err := ExecuteTestCobraCommand("usage", "jail:")
	require.Error(s.T(), err)
	require.ErrorIs(s.T(), err, rctl.ErrNoSubjectGiven)
}

func (s *UsageSuite) TestWantsExactlyOneSubject() {
	_, _, err := ExecuteTestCobraCommand("usage")
	require.Error(s.T(), err)

	_, _, err = ExecuteTestCobraCommand("usage", "jail:a", "jail:b")
	require.Error(s.T(), err)
}

func (s *UsageSuite) TestNeedsKernelSupport() {
	if runtime.GOOS == "freebsd" {
		s.T().Skip("the kernel exchange is live here")
	}

	_, _, err := ExecuteTestCobraCommand("usage", "jail:www")
	require.ErrorIs(s.T(), err, rctl.ErrPlatformUnsupported)
}
