//go:build unit || !integration

package jailmon

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jailmon-project/jailmon/pkg/config"
)

type RootSuite struct {
	BaseSuite
}

func TestRootSuite(t *testing.T) {
	suite.Run(t, new(RootSuite))
}

func (s *RootSuite) TestHelpListsCommands() {
	_, out, err := ExecuteTestCobraCommand("--help")
	require.NoError(s.T(), err)

	for _, name := range []string{"serve", "version", "bcrypt", "rules", "usage", "rc-script"} {
		require.Contains(s.T(), out, name)
	}
}

func (s *RootSuite) TestVersionFlagUsesTemplate() {
	buf := new(bytes.Buffer)
	root := NewRootCmd()
	root.Version = "v1.2.3"
	setVersion(root)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"--version"})

	require.NoError(s.T(), root.Execute())
	require.Equal(s.T(), "Jailmon Version: v1.2.3\n", buf.String())
}

func (s *RootSuite) TestDefaultsLoaded() {
	// Any command triggers config initialization through the root PreRun.
	_, _, err := ExecuteTestCobraCommand("version")
	require.NoError(s.T(), err)

	require.Equal(s.T(), config.DefaultListenAddress, config.ListenAddress())
	require.Equal(s.T(), config.DefaultTelemetryPath, config.TelemetryPath())
	require.Empty(s.T(), config.OutputPath())
}

func (s *RootSuite) TestConfigFileFlag() {
	path := filepath.Join(s.T().TempDir(), "jailmon.yaml")
	contents := "web:\n  telemetry-path: /jail-metrics\n"
	require.NoError(s.T(), os.WriteFile(path, []byte(contents), 0644))

	_, _, err := ExecuteTestCobraCommand("--config", path, "version")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "/jail-metrics", config.TelemetryPath())
}

func (s *RootSuite) TestMissingConfigFileFails() {
	path := filepath.Join(s.T().TempDir(), "nope.yaml")

	_, _, err := ExecuteTestCobraCommand("--config", path, "version")
	require.Error(s.T(), err)
}
