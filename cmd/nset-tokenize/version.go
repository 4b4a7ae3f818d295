package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// buildVersion is the tool's own release version. Set to a fixed value
// here since this module has no build-time ldflags injection wired up.
const buildVersion = "v0.1.0"

func newVersionCmd() *cobra.Command {
	var minVersion string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), buildVersion)
			if minVersion == "" {
				return nil
			}
			if !semver.IsValid(minVersion) {
				return fmt.Errorf("--min-version %q is not a valid semver", minVersion)
			}
			if semver.Compare(buildVersion, minVersion) < 0 {
				return fmt.Errorf("nset-tokenize %s is older than required minimum %s", buildVersion, minVersion)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&minVersion, "min-version", "", "Fail if the tool version is older than this semver")
	return cmd
}
