package cmd

import (
	"fmt"
	"strings"

	"github.com/crytic/u256diff/fuzzing/config"
	"github.com/spf13/cobra"
)

// addReplayFlags adds the various flags for the replay command
func addReplayFlags(cmd *cobra.Command) error {
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	cmd.Flags().SortFlags = false

	// Config file
	cmd.Flags().String("config", "", "path to config file")

	// Operation
	cmd.Flags().String("op", "",
		fmt.Sprintf("operation to replay over the positional operands (options: %s)", strings.Join(operationNames(), ", ")))

	// Finding
	cmd.Flags().String("finding", "", "ID, or unambiguous ID prefix, of a recorded finding to replay")

	// Findings database
	cmd.Flags().String("findings-db", "",
		fmt.Sprintf("path of the findings database (unless a config file is provided, default is %q)", defaultConfig.Fuzzing.FindingsDatabase))

	// Reference oracle
	cmd.Flags().Bool("no-reference", false, "do not triage the result with the reference oracle")
	return nil
}

// updateProjectConfigWithReplayFlags will update the given projectConfig with any CLI arguments that were provided to
// the replay command
func updateProjectConfigWithReplayFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update findings database
	if cmd.Flags().Changed("findings-db") {
		projectConfig.Fuzzing.FindingsDatabase, err = cmd.Flags().GetString("findings-db")
		if err != nil {
			return err
		}
	}
	return nil
}
