//go:build unit || !integration

package jailmon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jailmon-project/jailmon/pkg/config"
)

func TestValidateListenAddress(t *testing.T) {
	valid := []struct {
		input string
		host  string
		port  int
	}{
		{"127.0.0.1:9452", "127.0.0.1", 9452},
		{"0.0.0.0:9100", "0.0.0.0", 9100},
		{"[::1]:9452", "::1", 9452},
		{"[2001:db8::1]:8080", "2001:db8::1", 8080},
	}
	for _, tc := range valid {
		host, port, err := validateListenAddress(tc.input)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.host, host, tc.input)
		require.Equal(t, tc.port, port, tc.input)
	}

	invalid := []string{
		"",
		"127.0.0.1",
		"[::1]",
		":9452",
		"localhost:9452",
		"example.com:9452",
		"127.0.0.1:port",
		"1.2.3.4:99999",
		"random string",
	}
	for _, input := range invalid {
		_, _, err := validateListenAddress(input)
		require.Error(t, err, input)
		require.Contains(t, err.Error(), "is not a valid ADDR:PORT string", input)
	}
}

func TestValidateTelemetryPath(t *testing.T) {
	require.NoError(t, validateTelemetryPath("/metrics"))
	require.NoError(t, validateTelemetryPath("/jail-metrics"))

	invalid := map[string]string{
		"":         "must not be empty",
		"metrics":  "must start with /",
		"/":        "must not be /",
		"/healthz": "must not be /healthz",
	}
	for input, message := range invalid {
		err := validateTelemetryPath(input)
		require.Error(t, err, input)
		require.Contains(t, err.Error(), message, input)
	}
}

func TestValidateOutputFilePath(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, validateOutputFilePath("-"))
	require.NoError(t, validateOutputFilePath(filepath.Join(dir, "metrics.prom")))

	// Overwriting an existing file is allowed.
	existing := filepath.Join(dir, "existing.prom")
	require.NoError(t, os.WriteFile(existing, []byte("# nothing\n"), 0644))
	require.NoError(t, validateOutputFilePath(existing))

	invalid := map[string]string{
		"metrics.prom":                           "only accepts absolute paths",
		dir:                                      "must not point at a directory",
		filepath.Join(dir, "metrics.txt"):        "must have .prom extension",
		filepath.Join(dir, "no", "metrics.prom"): "directory must exist",
	}
	for input, message := range invalid {
		err := validateOutputFilePath(input)
		require.Error(t, err, input)
		require.Contains(t, err.Error(), message, input)
	}
}

// ServeSuite drives the serve command far enough to prove flags, environment
// and config wiring reach the validators. Every run here carries at least
// one invalid setting so the command fails fast instead of starting a
// server.
type ServeSuite struct {
	BaseSuite
}

func TestServeSuite(t *testing.T) {
	suite.Run(t, new(ServeSuite))
}

func (s *ServeSuite) TestRejectsBadListenAddressFlag() {
	_, _, err := ExecuteTestCobraCommand("serve", "--web.listen-address", "localhost:9452")
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), `"localhost:9452" is not a valid ADDR:PORT string`)
}

func (s *ServeSuite) TestRejectsRootTelemetryPath() {
	_, _, err := ExecuteTestCobraCommand("serve", "--web.telemetry-path", "/")
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "must not be /")
}

func (s *ServeSuite) TestRejectsHealthcheckTelemetryPath() {
	_, _, err := ExecuteTestCobraCommand("serve", "--web.telemetry-path", "/healthz")
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "must not be /healthz")
}

func (s *ServeSuite) TestTelemetryPathFromEnvironment() {
	s.T().Setenv(config.KeyAsEnvVar(config.WebTelemetryPath), "no-leading-slash")

	_, _, err := ExecuteTestCobraCommand("serve")
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "must start with /")
}

func (s *ServeSuite) TestFlagBeatsEnvironment() {
	// The environment carries a valid path; the flag an invalid one. The
	// failure proves the flag took precedence.
	s.T().Setenv(config.KeyAsEnvVar(config.WebTelemetryPath), "/from-env")

	_, _, err := ExecuteTestCobraCommand("serve", "--web.telemetry-path", "/")
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "must not be /")
}

func (s *ServeSuite) TestConfigFileReachesValidation() {
	path := filepath.Join(s.T().TempDir(), "jailmon.yaml")
	contents := "web:\n  listen-address: not-an-address\n"
	require.NoError(s.T(), os.WriteFile(path, []byte(contents), 0644))

	_, _, err := ExecuteTestCobraCommand("--config", path, "serve")
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), `"not-an-address" is not a valid ADDR:PORT string`)
}

func (s *ServeSuite) TestRejectsRelativeOutputPath() {
	_, _, err := ExecuteTestCobraCommand("serve", "--output.file-path", "metrics.prom")
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "only accepts absolute paths")
}

func (s *ServeSuite) TestRejectsDirectoryOutputPath() {
	_, _, err := ExecuteTestCobraCommand("serve", "--output.file-path", s.T().TempDir())
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "must not point at a directory")
}

func (s *ServeSuite) TestRejectsWrongOutputExtension() {
	path := filepath.Join(s.T().TempDir(), "metrics.txt")

	_, _, err := ExecuteTestCobraCommand("serve", "--output.file-path", path)
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "must have .prom extension")
}

func (s *ServeSuite) TestRejectsPositionalArguments() {
	_, _, err := ExecuteTestCobraCommand("serve", "surprise")
	require.Error(s.T(), err)
}
