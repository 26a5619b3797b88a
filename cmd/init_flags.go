package cmd

import (
	"fmt"

	"github.com/crytic/u256diff/fuzzing/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags() error {
	// Output path for configuration
	initCmd.Flags().String("out", "", "output path for the new project configuration file")

	// Target
	initCmd.Flags().String("target", "",
		fmt.Sprintf("fuzz target, %q or %q", config.TargetBinary, config.TargetTernary))
	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// If --target was used
	if cmd.Flags().Changed("target") {
		projectConfig.Fuzzing.Target, err = cmd.Flags().GetString("target")
		if err != nil {
			return err
		}
	}
	return projectConfig.Validate()
}
