package jailmon

import (
	_ "embed"
	"strings"

	"github.com/spf13/cobra"
)

// The embedded script is the one intended for the ports tree, so its
// %%PREFIX%% placeholder needs filling in before the output is usable
// directly.
//
//go:embed rc.d/jailmon.in
var rcScript string

const portsPrefix = "/usr/local"

func newRCScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rc-script",
		Short: "Dump the jailmon rc(8) script to stdout",
		Long: `Dump an rc(8) script for running jailmon under the FreeBSD service
framework. Install it as /usr/local/etc/rc.d/jailmon and enable with
jailmon_enable="YES" in rc.conf.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Print(strings.ReplaceAll(rcScript, "%%PREFIX%%", portsPrefix))
			return nil
		},
	}
}
