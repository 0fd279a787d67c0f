package jailmon

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jailmon-project/jailmon/pkg/config"
)

// NewRootCmd builds the whole command tree. Each call returns a fresh tree,
// which is what lets tests run commands back to back without flag values
// leaking between runs.
func NewRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "jailmon",
		Short: "Prometheus exporter for FreeBSD jail metrics",
		Long: `Prometheus exporter for jail metrics as reported by the kernel's
RACCT/RCTL resource accounting, the same numbers rctl(8) shows.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts := []config.Option{}
			if configFile != "" {
				opts = append(opts, config.WithConfigFile(configFile))
			}
			if _, err := config.Init(opts...); err != nil {
				return err
			}
			return nil
		},
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newBcryptCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newUsageCmd())
	rootCmd.AddCommand(newRCScriptCmd())

	rootCmd.PersistentFlags().StringVar(
		&configFile, "config", "",
		fmt.Sprintf("Config file to load (default is %s/jailmon.yaml when present).", config.DefaultConfigDir),
	)

	return rootCmd
}

func Execute(version string) {
	rootCmd := NewRootCmd()
	rootCmd.Version = version
	setVersion(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setVersion(cmd *cobra.Command) {
	template := fmt.Sprintf("Jailmon Version: %s\n", cmd.Version)
	cmd.SetVersionTemplate(template)
}
