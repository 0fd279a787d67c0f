package jailmon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/jailmon-project/jailmon/pkg/version"
)

// Versions is a struct for version information
type Versions struct {
	ClientVersion *version.BuildVersionInfo `json:"clientVersion,omitempty" yaml:"clientVersion,omitempty"`
}

// VersionOptions is a struct to support version command
type VersionOptions struct {
	Output string
}

// NewVersionOptions returns initialized Options
func NewVersionOptions() *VersionOptions {
	return &VersionOptions{}
}

func newVersionCmd() *cobra.Command {
	oV := NewVersionOptions()

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Get the version of this binary.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, oV)
		},
	}
	versionCmd.Flags().StringVarP(&oV.Output, "output", "o", oV.Output, "One of 'yaml' or 'json'.")

	return versionCmd
}

func runVersion(cmd *cobra.Command, oV *VersionOptions) error {
	ctx := cmd.Context()

	oV.Output = strings.TrimSpace(strings.ToLower(oV.Output))

	err := oV.Validate(cmd)
	if err != nil {
		Fatal(cmd, fmt.Sprintf("Error validating version: %s\n", err), 1)
	}

	err = oV.Run(ctx, cmd)
	if err != nil {
		Fatal(cmd, fmt.Sprintf("Error running version: %s\n", err), 1)
	}

	return nil
}

// Validate validates the provided options
func (oV *VersionOptions) Validate(*cobra.Command) error {
	if oV.Output != "" && oV.Output != YAMLFormat && oV.Output != JSONFormat {
		return errors.New(`--output must be 'yaml' or 'json'`)
	}

	return nil
}

// Run executes version command
func (oV *VersionOptions) Run(_ context.Context, cmd *cobra.Command) error {
	versions := Versions{ClientVersion: version.Get()}

	switch oV.Output {
	case "":
		cmd.Printf("Client Version: %s\n", versions.ClientVersion.GitVersion)
	case YAMLFormat:
		marshaled, err := yaml.Marshal(versions)
		if err != nil {
			return err
		}
		cmd.Println(string(marshaled))
	case JSONFormat:
		marshaled, err := json.Marshal(versions)
		if err != nil {
			return err
		}
		cmd.Println(string(marshaled))
	default:
		// There is a bug in the program if we hit this case.
		// However, we follow a policy of never panicking.
		return fmt.Errorf("VersionOptions were not validated: --output=%q should have been rejected", oV.Output)
	}

	return nil
}
