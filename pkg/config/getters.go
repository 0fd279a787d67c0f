package config

import (
	"github.com/spf13/viper"
)

// GetConfig returns the current resolved configuration from viper as a
// JailmonConfig. This is the merged view of defaults, the config file,
// environment variables, and any bound flags.
func GetConfig() (*JailmonConfig, error) {
	out := new(JailmonConfig)
	if err := viper.Unmarshal(&out, DecoderHook); err != nil {
		return nil, err
	}
	return out, nil
}

func ListenAddress() string {
	return viper.GetString(WebListenAddress)
}

func TelemetryPath() string {
	return viper.GetString(WebTelemetryPath)
}

func AuthConfigPath() string {
	return viper.GetString(WebAuthConfig)
}

func OutputPath() string {
	return viper.GetString(OutputFilePath)
}
