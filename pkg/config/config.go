package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	environmentVariablePrefix = "JAILMON"
	inferConfigTypes          = true

	configType = "yaml"
	configName = "jailmon"

	// DefaultConfigDir is searched for a jailmon.yaml when no explicit
	// config file is given. FreeBSD keeps third party configuration under
	// the ports prefix.
	DefaultConfigDir = "/usr/local/etc"
)

var (
	// Flag names use "-" inside words while environment variables cannot,
	// so both the key separator and the dashes map to underscores:
	// web.listen-address becomes JAILMON_WEB_LISTEN_ADDRESS.
	environmentVariableReplace = strings.NewReplacer(".", "_", "-", "_")

	// DecoderHook lets viper unmarshal into types implementing
	// encoding.TextUnmarshaler.
	DecoderHook = viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())
)

type Params struct {
	ConfigDir     string
	ConfigFile    string
	FileHandler   func(fileName string) error
	DefaultConfig JailmonConfig
}

type Option func(p *Params)

// WithDefaultConfig replaces the built in defaults, mostly useful for
// tests that want a known baseline.
func WithDefaultConfig(cfg JailmonConfig) Option {
	return func(p *Params) {
		p.DefaultConfig = cfg
	}
}

// WithConfigFile makes Init read the named file instead of searching the
// default directory. The file must exist.
func WithConfigFile(path string) Option {
	return func(p *Params) {
		p.ConfigFile = path
		p.FileHandler = RequireConfigHandler
	}
}

// WithConfigDir changes the directory searched for jailmon.yaml.
func WithConfigDir(dir string) Option {
	return func(p *Params) {
		p.ConfigDir = dir
	}
}

// Init wires viper up with defaults, the optional config file and the
// JAILMON_* environment, then returns the resolved configuration.
// Precedence from weakest to strongest: defaults, config file,
// environment, flags bound by the command layer.
func Init(opts ...Option) (JailmonConfig, error) {
	params := &Params{
		ConfigDir:     DefaultConfigDir,
		FileHandler:   OptionalConfigHandler,
		DefaultConfig: Default(),
	}

	for _, opt := range opts {
		opt(params)
	}

	if params.ConfigFile != "" {
		viper.SetConfigFile(params.ConfigFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType(configType)
		viper.AddConfigPath(params.ConfigDir)
	}
	viper.SetEnvPrefix(environmentVariablePrefix)
	viper.SetTypeByDefaultValue(inferConfigTypes)
	viper.SetEnvKeyReplacer(environmentVariableReplace)
	setDefaults(params.DefaultConfig)

	if err := params.FileHandler(params.ConfigFile); err != nil {
		return JailmonConfig{}, err
	}

	viper.AutomaticEnv()

	var out JailmonConfig
	if err := viper.Unmarshal(&out, DecoderHook); err != nil {
		return JailmonConfig{}, err
	}

	return out, nil
}

// OptionalConfigHandler reads the config file if one is present and stays
// quiet when it is not.
func OptionalConfigHandler(string) error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		// An explicit SetConfigFile skips the search path, so a missing
		// file surfaces as a plain fs error rather than the viper one.
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// RequireConfigHandler reads the config file and fails when it cannot.
func RequireConfigHandler(fileName string) error {
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %q: %w", fileName, err)
	}
	return nil
}

// Reset clears all configuration, useful for testing.
func Reset() {
	viper.Reset()
}

// KeyAsEnvVar returns the environment variable corresponding to a config key
func KeyAsEnvVar(key string) string {
	return strings.ToUpper(
		fmt.Sprintf("%s_%s", environmentVariablePrefix, environmentVariableReplace.Replace(key)),
	)
}
