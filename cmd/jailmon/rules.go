package jailmon

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jailmon-project/jailmon/pkg/rctl"
)

func newRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and edit the kernel's resource limit rules",
		Long: `Inspect and edit the RACCT/RCTL rules the kernel enforces, using
the same rule and filter grammar as rctl(8).`,
	}

	rulesCmd.AddCommand(newRulesListCmd())
	rulesCmd.AddCommand(newRulesLimitsCmd())
	rulesCmd.AddCommand(newRulesAddCmd())
	rulesCmd.AddCommand(newRulesRemoveCmd())

	return rulesCmd
}

// RulesListOptions is a struct to support the rules list command
type RulesListOptions struct {
	HideHeader   bool   // Hide the column headers
	NoStyle      bool   // Remove all styling from table output.
	OutputFormat string // The output format for the rule listing (json or text)
}

// NewRulesListOptions returns initialized Options
func NewRulesListOptions() *RulesListOptions {
	return &RulesListOptions{
		HideHeader:   false,
		NoStyle:      false,
		OutputFormat: "text",
	}
}

func newRulesListCmd() *cobra.Command {
	oL := NewRulesListOptions()

	listCmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List rules matching a filter",
		Long: `List the rules the kernel currently holds. An optional filter in
rctl(8) grammar narrows the listing; without one every rule is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesList(cmd, oL, args)
		},
	}
	listCmd.Flags().BoolVar(&oL.HideHeader, "hide-header", oL.HideHeader,
		`do not print the column headers.`)
	listCmd.Flags().BoolVar(&oL.NoStyle, "no-style", oL.NoStyle,
		`remove all styling from table output.`)
	listCmd.Flags().StringVar(&oL.OutputFormat, "output", oL.OutputFormat,
		`The output format for the rule listing (json or text)`)

	return listCmd
}

// ruleRow is the JSON shape of one listed rule.
type ruleRow struct {
	Subject  string `json:"subject"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Limit    string `json:"limit"`
}

func runRulesList(cmd *cobra.Command, oL *RulesListOptions, args []string) error {
	ctx := cmd.Context()

	filter := rctl.NewFilter()
	if len(args) == 1 {
		var err error
		filter, err = rctl.ParseFilter(args[0])
		if err != nil {
			return err
		}
	}

	log.Ctx(ctx).Debug().Msgf("listing rules matching %q", filter)

	rules, err := rctl.NewChannel().GetRules(ctx, filter)
	if err != nil {
		return err
	}

	return renderRules(cmd, oL, rules)
}

func newRulesLimitsCmd() *cobra.Command {
	oL := NewRulesListOptions()

	limitsCmd := &cobra.Command{
		Use:   "limits <process-subject>",
		Short: "List the rules applied to one process",
		Long: `List the rules the kernel applies to a single process, including
those it inherits through its user, login class and jail, e.g.

  jailmon rules limits process:1234`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesLimits(cmd, oL, args)
		},
	}
	limitsCmd.Flags().BoolVar(&oL.HideHeader, "hide-header", oL.HideHeader,
		`do not print the column headers.`)
	limitsCmd.Flags().BoolVar(&oL.NoStyle, "no-style", oL.NoStyle,
		`remove all styling from table output.`)
	limitsCmd.Flags().StringVar(&oL.OutputFormat, "output", oL.OutputFormat,
		`The output format for the rule listing (json or text)`)

	return limitsCmd
}

func runRulesLimits(cmd *cobra.Command, oL *RulesListOptions, args []string) error {
	ctx := cmd.Context()

	subject, err := rctl.ParseSubject(args[0])
	if err != nil {
		return err
	}
	// The kernel resolves applied rules for processes only; other subject
	// types are what "rules list" filters on.
	if subject.Type() != rctl.SubjectTypeProcess {
		return fmt.Errorf("limits are resolved per process, not per %s; try 'rules list %s'",
			subject.Type(), subject)
	}

	log.Ctx(ctx).Debug().Msgf("listing rules applied to %q", subject)

	rules, err := rctl.NewChannel().GetLimits(ctx, subject)
	if err != nil {
		return err
	}

	return renderRules(cmd, oL, rules)
}

func renderRules(cmd *cobra.Command, oL *RulesListOptions, rules []rctl.Rule) error {
	rows := make([]ruleRow, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, ruleRow{
			Subject:  rule.Subject.String(),
			Resource: rule.Resource.String(),
			Action:   rule.Action.String(),
			Limit:    rule.Limit.String(),
		})
	}

	if oL.OutputFormat == JSONFormat {
		msgBytes, err := json.MarshalIndent(rows, "", "    ")
		if err != nil {
			return err
		}
		cmd.Printf("%s\n", msgBytes)
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	if !oL.HideHeader {
		tw.AppendHeader(table.Row{"subject", "resource", "action", "limit"})
	}
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Subject, row.Resource, row.Action, row.Limit})
	}
	setTableStyle(tw, oL.NoStyle)
	tw.Render()

	return nil
}

func newRulesAddCmd() *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add <rule>",
		Short: "Add a rule to the kernel",
		Long: `Add a resource limit rule, e.g.

  jailmon rules add jail:www:memoryuse:deny=512m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rule, err := rctl.ParseRule(args[0])
			if err != nil {
				return err
			}

			if err := rctl.NewChannel().AddRule(ctx, rule); err != nil {
				return err
			}

			log.Ctx(ctx).Info().Msgf("added rule %s", rule)
			return nil
		},
	}

	return addCmd
}

func newRulesRemoveCmd() *cobra.Command {
	removeCmd := &cobra.Command{
		Use:   "remove <filter>",
		Short: "Remove all rules matching a filter",
		Long: `Remove every rule matching a filter in rctl(8) grammar, e.g.

  jailmon rules remove jail:www`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			filter, err := rctl.ParseFilter(args[0])
			if err != nil {
				return err
			}

			if err := rctl.NewChannel().RemoveRules(ctx, filter); err != nil {
				return err
			}

			log.Ctx(ctx).Info().Msgf("removed rules matching %s", filter)
			return nil
		},
	}

	return removeCmd
}

// setTableStyle strips the table down to plain columns when asked; the
// default stays aligned with the rest of the CLI output.
func setTableStyle(tw table.Writer, noStyle bool) {
	if noStyle {
		tw.SetStyle(table.Style{
			Name:   "StyleDefault",
			Box:    table.StyleBoxDefault,
			Color:  table.ColorOptionsDefault,
			Format: table.FormatOptionsDefault,
			HTML:   table.DefaultHTMLOptions,
			Options: table.Options{
				DrawBorder:      false,
				SeparateColumns: false,
				SeparateFooter:  false,
				SeparateHeader:  false,
				SeparateRows:    false,
			},
			Title: table.TitleOptionsDefault,
		})
		return
	}
	tw.SetStyle(table.StyleLight)
}
