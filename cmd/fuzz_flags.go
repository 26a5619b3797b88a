package cmd

import (
	"fmt"
	"strings"

	"github.com/crytic/u256diff/fuzzing/config"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// addFuzzFlags adds the various flags for the fuzz command
func addFuzzFlags(cmd *cobra.Command) error {
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	cmd.Flags().SortFlags = false

	// Config file
	cmd.Flags().String("config", "", "path to config file")

	// Target
	cmd.Flags().String("target", "",
		fmt.Sprintf("fuzz target, %q or %q (unless a config file is provided, default is %q)", config.TargetBinary, config.TargetTernary, defaultConfig.Fuzzing.Target))

	// Operation set
	cmd.Flags().String("operation-set", "",
		fmt.Sprintf("named operation set, %q or %q (unless a config file is provided, default is %q)", config.OperationSetAll, config.OperationSetHighValue, defaultConfig.Fuzzing.OperationSet))

	// Explicit operations
	cmd.Flags().StringSlice("ops", []string{},
		fmt.Sprintf("operations to compare, overriding the operation set (options: %s)", strings.Join(operationNames(), ", ")))

	// Timeout
	cmd.Flags().Int("timeout", 0,
		fmt.Sprintf("number of seconds to run the fuzzer campaign for (unless a config file is provided, default is %d). 0 means that timeout is not enforced", defaultConfig.Fuzzing.Timeout))

	// Test limit
	cmd.Flags().Uint64("test-limit", 0,
		fmt.Sprintf("number of inputs to test before exiting (unless a config file is provided, default is %d). 0 means that test limit is not enforced", defaultConfig.Fuzzing.TestLimit))

	// Seed
	cmd.Flags().Int64("seed", 0,
		"seed of the random input generator. 0 means a time based seed is used")

	// Max input length
	cmd.Flags().Int("max-input-length", 0,
		fmt.Sprintf("maximum length in bytes of generated inputs (unless a config file is provided, default is %d)", defaultConfig.Fuzzing.MaxInputLength))

	// Findings database
	cmd.Flags().String("findings-db", "",
		fmt.Sprintf("path of the findings database (unless a config file is provided, default is %q)", defaultConfig.Fuzzing.FindingsDatabase))

	// Disable findings persistence
	cmd.Flags().Bool("no-findings", false, "do not persist findings")

	// Log level
	cmd.Flags().String("log-level", "",
		fmt.Sprintf("log level (unless a config file is provided, default is %q)", defaultConfig.Logging.Level))

	// Color
	cmd.Flags().Bool("no-color", false, "disable colored terminal output")
	return nil
}

// operationNames returns the mnemonics of every registered operation.
func operationNames() []string {
	ops := operations.All()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return names
}

// updateProjectConfigWithFuzzFlags will update the given projectConfig with any CLI arguments that were provided to the fuzz command
func updateProjectConfigWithFuzzFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update target
	if cmd.Flags().Changed("target") {
		projectConfig.Fuzzing.Target, err = cmd.Flags().GetString("target")
		if err != nil {
			return err
		}
	}

	// Update operation set
	if cmd.Flags().Changed("operation-set") {
		projectConfig.Fuzzing.OperationSet, err = cmd.Flags().GetString("operation-set")
		if err != nil {
			return err
		}
	}

	// Update explicit operations
	if cmd.Flags().Changed("ops") {
		projectConfig.Fuzzing.Operations, err = cmd.Flags().GetStringSlice("ops")
		if err != nil {
			return err
		}
	}

	// Update timeout
	if cmd.Flags().Changed("timeout") {
		projectConfig.Fuzzing.Timeout, err = cmd.Flags().GetInt("timeout")
		if err != nil {
			return err
		}
	}

	// Update test limit
	if cmd.Flags().Changed("test-limit") {
		projectConfig.Fuzzing.TestLimit, err = cmd.Flags().GetUint64("test-limit")
		if err != nil {
			return err
		}
	}

	// Update seed
	if cmd.Flags().Changed("seed") {
		projectConfig.Fuzzing.Seed, err = cmd.Flags().GetInt64("seed")
		if err != nil {
			return err
		}
	}

	// Update max input length
	if cmd.Flags().Changed("max-input-length") {
		projectConfig.Fuzzing.MaxInputLength, err = cmd.Flags().GetInt("max-input-length")
		if err != nil {
			return err
		}
	}

	// Update findings database
	if cmd.Flags().Changed("findings-db") {
		projectConfig.Fuzzing.FindingsDatabase, err = cmd.Flags().GetString("findings-db")
		if err != nil {
			return err
		}
	}

	// Disable findings persistence
	noFindings, err := cmd.Flags().GetBool("no-findings")
	if err != nil {
		return err
	}
	if noFindings {
		projectConfig.Fuzzing.FindingsDatabase = ""
	}

	// Update log level
	if cmd.Flags().Changed("log-level") {
		levelName, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		projectConfig.Logging.Level, err = zerolog.ParseLevel(levelName)
		if err != nil {
			return err
		}
	}

	// Update color
	if cmd.Flags().Changed("no-color") {
		projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
	}
	return nil
}
