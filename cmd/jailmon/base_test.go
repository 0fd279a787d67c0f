//go:build unit || !integration

package jailmon

import (
	"bytes"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/suite"

	"github.com/jailmon-project/jailmon/pkg/config"
	"github.com/jailmon-project/jailmon/pkg/logger"
)

type BaseSuite struct {
	suite.Suite
}

// before each test
func (s *BaseSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
	Fatal = FakeFatalErrorHandler
	config.Reset()
}

// After each test
func (s *BaseSuite) TearDownTest() {
	Fatal = FatalErrorHandler
	config.Reset()
}

// ExecuteTestCobraCommand runs args against a fresh command tree and hands
// back whatever it printed, stdout and stderr interleaved.
func ExecuteTestCobraCommand(args ...string) (*cobra.Command, string, error) {
	buf := new(bytes.Buffer)
	root := NewRootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	c, err := root.ExecuteC()
	return c, buf.String(), err
}
