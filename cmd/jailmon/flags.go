package jailmon

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jailmon-project/jailmon/pkg/config"
)

type flagDefinition struct {
	Name        string
	Path        string
	Default     interface{}
	Description string
}

// Generic function to define a flag and set a default value
func registerFlags(cmd *cobra.Command, register map[string][]flagDefinition) error {
	for name, defs := range register {
		fset := pflag.NewFlagSet(name, pflag.ContinueOnError)
		// Determine the type of the default value
		for _, def := range defs {
			switch v := def.Default.(type) {
			case int:
				fset.Int(def.Name, v, def.Description)
			case bool:
				fset.Bool(def.Name, v, def.Description)
			case string:
				fset.String(def.Name, v, def.Description)
			case []string:
				fset.StringSlice(def.Name, v, def.Description)
			default:
				return fmt.Errorf("unhandled type: %T", v)
			}
		}
		cmd.PersistentFlags().AddFlagSet(fset)
	}
	return nil
}

// bindFlags connects registered flags to their viper keys. Binding happens
// in the command's PreRun rather than at construction so that a viper.Reset
// between runs, which tests lean on, cannot orphan the bindings.
func bindFlags(cmd *cobra.Command, register map[string][]flagDefinition) error {
	for _, defs := range register {
		for _, def := range defs {
			flag := cmd.PersistentFlags().Lookup(def.Name)
			if flag == nil {
				return fmt.Errorf("unknown flag: %s", def.Name)
			}
			if err := viper.BindPFlag(def.Path, flag); err != nil {
				return err
			}
		}
	}
	return nil
}

var WebFlags = []flagDefinition{
	{
		Name:        "web.listen-address",
		Path:        config.WebListenAddress,
		Default:     config.Default().Web.ListenAddress,
		Description: `Address on which to expose metrics and web interface.`,
	},
	{
		Name:        "web.telemetry-path",
		Path:        config.WebTelemetryPath,
		Default:     config.Default().Web.TelemetryPath,
		Description: `Path under which to expose metrics.`,
	},
	{
		Name:        "web.auth-config",
		Path:        config.WebAuthConfig,
		Default:     config.Default().Web.AuthConfig,
		Description: `Path to HTTP Basic Authentication configuration.`,
	},
}

var OutputFlags = []flagDefinition{
	{
		Name:        "output.file-path",
		Path:        config.OutputFilePath,
		Default:     config.Default().Output.FilePath,
		Description: `File to output metrics to instead of serving them; "-" writes to stdout.`,
	},
}
