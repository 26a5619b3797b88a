package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/crytic/u256diff/cmd/exitcodes"
	"github.com/crytic/u256diff/fuzzing"
	"github.com/crytic/u256diff/fuzzing/oracles/foreign"
	"github.com/crytic/u256diff/fuzzing/oracles/native"
	"github.com/spf13/cobra"
)

// fuzzCmd represents the command provider for fuzzing
var fuzzCmd = &cobra.Command{
	Use:               "fuzz",
	Short:             "Starts a differential fuzzing campaign",
	Long:              `Starts a campaign comparing the native and foreign oracles until the first failure, the test limit or the timeout`,
	Args:              cmdValidateFuzzArgs,
	ValidArgsFunction: cmdValidFlagArgs,
	RunE:              cmdRunFuzz,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the fuzz command
	err := addFuzzFlags(fuzzCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the fuzz command", err)
	}

	// Add the fuzz command and its associated flags to the root command
	rootCmd.AddCommand(fuzzCmd)
}

// cmdValidateFuzzArgs makes sure that there are no positional arguments provided to the fuzz command
func cmdValidateFuzzArgs(cmd *cobra.Command, args []string) error {
	// Make sure we have no positional args
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("fuzz does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the fuzz command", err)
		return err
	}
	return nil
}

// cmdRunFuzz executes the CLI fuzz command. It exits with exitcodes.ExitCodeTestFailed if the campaign found a failure.
func cmdRunFuzz(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the fuzz command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithFuzzFlags(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the fuzz command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Load the foreign library
	lib, err := foreign.Open()
	if err != nil {
		cmdLogger.Error("Failed to load the foreign library", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	foreignOracle, err := foreign.NewOracle(lib)
	if err != nil {
		cmdLogger.Error("Failed to load the foreign library", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	fuzzer, err := fuzzing.NewFuzzer(*projectConfig, native.NewOracle(), foreignOracle)
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGeneralError)
	}

	// Stop our fuzzing on keyboard interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)
	go func() {
		<-c
		fuzzer.Stop()
	}()

	// Start the fuzzing process with our cancellable context.
	err = fuzzer.Start()
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeFuzzerError)
	}

	// If we found a failure, we'll want to return a special exit code. It was reported by the fuzzer already.
	if fuzzer.Failure() != nil {
		return exitcodes.NewErrorWithExitCode(nil, exitcodes.ExitCodeTestFailed)
	}
	return nil
}
