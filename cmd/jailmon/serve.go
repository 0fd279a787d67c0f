package jailmon

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jailmon-project/jailmon/pkg/config"
	"github.com/jailmon-project/jailmon/pkg/exporter"
	"github.com/jailmon-project/jailmon/pkg/jail"
	"github.com/jailmon-project/jailmon/pkg/publicapi"
	"github.com/jailmon-project/jailmon/pkg/rctl"
	"github.com/jailmon-project/jailmon/pkg/system"
)

// stdoutPath is the special output.file-path value that dumps one
// collection to stdout instead of a file, mirroring the usual Unix
// convention.
const stdoutPath = "-"

func newServeCmd() *cobra.Command {
	serveFlags := map[string][]flagDefinition{
		"web":    WebFlags,
		"output": OutputFlags,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Collect jail metrics and expose them over HTTP",
		Long: `Collect resource usage for every running jail and expose it in
Prometheus text format, either over HTTP or as a one-shot file for the
node_exporter textfile collector.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, serveFlags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}

	if err := registerFlags(serveCmd, serveFlags); err != nil {
		Fatal(serveCmd, err.Error(), 1)
	}

	return serveCmd
}

func serve(cmd *cobra.Command) error {
	ctx := cmd.Context()

	listenAddress := config.ListenAddress()
	telemetryPath := config.TelemetryPath()
	authConfigPath := config.AuthConfigPath()
	outputPath := config.OutputPath()

	host, port, err := validateListenAddress(listenAddress)
	if err != nil {
		return err
	}
	if err := validateTelemetryPath(telemetryPath); err != nil {
		return err
	}
	if outputPath != "" {
		if err := validateOutputFilePath(outputPath); err != nil {
			return err
		}
	}

	// Both checks happen before anything touches the kernel so the operator
	// gets an actionable message rather than a failed scrape later.
	if err := system.EnsureRoot(); err != nil {
		return err
	}
	if err := system.EnsureRACCT(); err != nil {
		return err
	}

	// Cleanup manager ensures that resources are freed before exiting:
	cm := system.NewCleanupManager()
	cm.RegisterCallback(system.CleanupTraceProvider)
	defer cm.Cleanup()

	e := exporter.New(jail.NewSource(), rctl.NewChannel())

	// One-shot file output: collect once, write, done. No HTTP endpoint.
	if outputPath != "" {
		return exportOnce(ctx, cmd, e, outputPath)
	}

	var auth *publicapi.BasicAuthConfig
	if authConfigPath != "" {
		auth, err = publicapi.LoadBasicAuthConfig(authConfigPath)
		if err != nil {
			return err
		}
		log.Ctx(ctx).Info().Msgf("HTTP Basic Authentication enabled with %d users", len(auth.Users))
	}

	apiServer := publicapi.NewServer(host, port, telemetryPath, e, auth)

	// Context ensures main goroutine waits until killed with ctrl+c:
	ctx, cancel := system.WithSignalShutdown(ctx)
	defer cancel()

	go func(ctx context.Context) {
		if err := apiServer.ListenAndServe(ctx, cm); err != nil {
			log.Ctx(ctx).Fatal().Msgf("api server cannot run, jailmon must stop: %+v", err)
		}
	}(ctx)

	log.Ctx(ctx).Info().Msgf("jailmon started, telemetry on %s%s", apiServer.GetURI(), telemetryPath)

	<-ctx.Done() // block until killed
	return nil
}

func exportOnce(ctx context.Context, cmd *cobra.Command, e *exporter.Exporter, outputPath string) error {
	if outputPath == stdoutPath {
		payload, err := e.Export(ctx)
		if err != nil {
			return err
		}
		cmd.Print(string(payload))
		return nil
	}

	log.Ctx(ctx).Info().Msgf("writing metrics to %s", outputPath)
	return exporter.NewFileWriter(e, outputPath).Export(ctx)
}

// validateListenAddress checks web.listen-address parses as ADDR:PORT and
// splits it for the server.
func validateListenAddress(s string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid ADDR:PORT string", s)
	}
	if net.ParseIP(host) == nil {
		return "", 0, fmt.Errorf("%q is not a valid ADDR:PORT string", s)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("%q is not a valid ADDR:PORT string", s)
	}
	return host, port, nil
}

// validateTelemetryPath keeps web.telemetry-path sane. The check is
// deliberately basic; the router rejects anything else at request time.
func validateTelemetryPath(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("web.telemetry-path must not be empty")
	case !strings.HasPrefix(s, "/"):
		return fmt.Errorf("web.telemetry-path must start with /")
	case s == "/":
		return fmt.Errorf("web.telemetry-path must not be /")
	case s == publicapi.HealthzPath:
		return fmt.Errorf("web.telemetry-path must not be %s", publicapi.HealthzPath)
	}
	return nil
}

// validateOutputFilePath vets output.file-path before we try a collection.
// "-" is stdout and always fine; everything else must be an absolute .prom
// path in an existing directory.
func validateOutputFilePath(s string) error {
	if s == stdoutPath {
		return nil
	}

	if !filepath.IsAbs(s) {
		return fmt.Errorf("output.file-path only accepts absolute paths")
	}

	if info, err := os.Stat(s); err == nil && info.IsDir() {
		return fmt.Errorf("output.file-path must not point at a directory")
	}

	// Node Exporter textfiles must end with .prom
	if filepath.Ext(s) != ".prom" {
		return fmt.Errorf("output.file-path must have .prom extension")
	}

	if info, err := os.Stat(filepath.Dir(s)); err != nil || !info.IsDir() {
		return fmt.Errorf("output.file-path directory must exist")
	}

	return nil
}
