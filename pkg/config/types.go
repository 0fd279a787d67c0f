package config

import (
	"github.com/spf13/viper"
)

// Viper keys for every setting the exporter understands. The dotted form
// doubles as the YAML structure of the config file and, via KeyAsEnvVar,
// as the environment variable name.
const (
	WebListenAddress = "web.listen-address"
	WebTelemetryPath = "web.telemetry-path"
	WebAuthConfig    = "web.auth-config"
	OutputFilePath   = "output.file-path"
)

const (
	// DefaultListenAddress is the address the HTTP endpoint binds to when
	// nothing else is configured. 9452 is the allocated exporter port for
	// jail metrics.
	DefaultListenAddress = "127.0.0.1:9452"

	// DefaultTelemetryPath is where metrics are exposed on the HTTP
	// endpoint.
	DefaultTelemetryPath = "/metrics"
)

type WebConfig struct {
	// ListenAddress is the ADDR:PORT pair to expose metrics on.
	ListenAddress string `mapstructure:"listen-address" yaml:"listen-address"`
	// TelemetryPath is the HTTP path metrics are served under.
	TelemetryPath string `mapstructure:"telemetry-path" yaml:"telemetry-path"`
	// AuthConfig optionally points at an HTTP Basic Authentication
	// configuration file.
	AuthConfig string `mapstructure:"auth-config" yaml:"auth-config"`
}

type OutputConfig struct {
	// FilePath switches the exporter into one-shot file output when set.
	FilePath string `mapstructure:"file-path" yaml:"file-path"`
}

// JailmonConfig is the full resolved configuration of the exporter.
type JailmonConfig struct {
	Web    WebConfig    `mapstructure:"web" yaml:"web"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// Default returns the configuration used when no file, environment
// variable or flag overrides anything.
func Default() JailmonConfig {
	return JailmonConfig{
		Web: WebConfig{
			ListenAddress: DefaultListenAddress,
			TelemetryPath: DefaultTelemetryPath,
		},
	}
}

func setDefaults(cfg JailmonConfig) {
	viper.SetDefault(WebListenAddress, cfg.Web.ListenAddress)
	viper.SetDefault(WebTelemetryPath, cfg.Web.TelemetryPath)
	viper.SetDefault(WebAuthConfig, cfg.Web.AuthConfig)
	viper.SetDefault(OutputFilePath, cfg.Output.FilePath)
}
