package jailmon

import (
	"encoding/json"

	"github.com/c2h5oh/datasize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jailmon-project/jailmon/pkg/rctl"
)

// UsageOptions is a struct to support the usage command
type UsageOptions struct {
	HideHeader   bool   // Hide the column headers
	NoStyle      bool   // Remove all styling from table output.
	OutputFormat string // The output format for the usage listing (json or text)
}

// NewUsageOptions returns initialized Options
func NewUsageOptions() *UsageOptions {
	return &UsageOptions{
		HideHeader:   false,
		NoStyle:      false,
		OutputFormat: "text",
	}
}

func newUsageCmd() *cobra.Command {
	oU := NewUsageOptions()

	usageCmd := &cobra.Command{
		Use:   "usage <subject>",
		Short: "Show current resource usage of one subject",
		Long: `Show the kernel's resource accounting for one subject, e.g.

  jailmon usage jail:www
  jailmon usage process:71825`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsage(cmd, oU, args)
		},
	}
	usageCmd.Flags().BoolVar(&oU.HideHeader, "hide-header", oU.HideHeader,
		`do not print the column headers.`)
	usageCmd.Flags().BoolVar(&oU.NoStyle, "no-style", oU.NoStyle,
		`remove all styling from table output.`)
	usageCmd.Flags().StringVar(&oU.OutputFormat, "output", oU.OutputFormat,
		`The output format for the usage listing (json or text)`)

	return usageCmd
}

// usageRow is the JSON shape of one resource's usage. Human is only set for
// byte-valued resources.
type usageRow struct {
	Resource string `json:"resource"`
	Amount   uint64 `json:"amount"`
	Human    string `json:"human,omitempty"`
}

func runUsage(cmd *cobra.Command, oU *UsageOptions, args []string) error {
	ctx := cmd.Context()

	subject, err := rctl.ParseSubject(args[0])
	if err != nil {
		return err
	}

	log.Ctx(ctx).Debug().Msgf("reading usage for %s", subject)

	usage, err := rctl.NewChannel().GetUsage(ctx, subject)
	if err != nil {
		return err
	}

	// Walk the canonical resource order so the output is stable between
	// runs instead of following map iteration.
	rows := make([]usageRow, 0, len(usage))
	for _, resource := range rctl.Resources() {
		amount, ok := usage[resource]
		if !ok {
			continue
		}
		row := usageRow{
			Resource: resource.String(),
			Amount:   amount,
		}
		if resource.IsBytes() {
			row.Human = (datasize.ByteSize(amount) * datasize.B).String()
		}
		rows = append(rows, row)
	}

	if oU.OutputFormat == JSONFormat {
		msgBytes, err := json.MarshalIndent(rows, "", "    ")
		if err != nil {
			return err
		}
		cmd.Printf("%s\n", msgBytes)
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	if !oU.HideHeader {
		tw.AppendHeader(table.Row{"resource", "amount", "human"})
	}
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Resource, row.Amount, row.Human})
	}
	setTableStyle(tw, oU.NoStyle)
	tw.Render()

	return nil
}
