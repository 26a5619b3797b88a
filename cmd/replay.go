package cmd

import (
	"fmt"

	"github.com/crytic/u256diff/cmd/exitcodes"
	"github.com/crytic/u256diff/fuzzing"
	"github.com/crytic/u256diff/fuzzing/findings"
	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles"
	"github.com/crytic/u256diff/fuzzing/oracles/foreign"
	"github.com/crytic/u256diff/fuzzing/oracles/native"
	"github.com/crytic/u256diff/fuzzing/oracles/reference"
	"github.com/crytic/u256diff/logging/colors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// replayCmd represents the command provider for replaying a single comparison
var replayCmd = &cobra.Command{
	Use:   "replay [--op OPERATION OPERAND...] [--finding ID]",
	Short: "Replays a single comparison",
	Long: `Evaluates one operation over one operand tuple on the native and foreign oracles, and triages any
disagreement with the reference oracle. Operands may be decimal, negative decimal or 0x-prefixed hexadecimal.`,
	Example: `  u256diff replay --op MULMOD 2 4 6
  u256diff replay --op SDIV -- -57896044618658097711785492504343953926634992332820282019728792003956564819968 -1
  u256diff replay --finding 3f2a`,
	Args:              cmdValidateReplayArgs,
	ValidArgsFunction: cmdValidFlagArgs,
	RunE:              cmdRunReplay,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the replay command
	err := addReplayFlags(replayCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the replay command", err)
	}

	// Add the replay command and its associated flags to the root command
	rootCmd.AddCommand(replayCmd)
}

// cmdValidateReplayArgs makes sure exactly one of --op and --finding is used, and that operands are only given with
// --op
func cmdValidateReplayArgs(cmd *cobra.Command, args []string) error {
	opUsed := cmd.Flags().Changed("op")
	findingUsed := cmd.Flags().Changed("finding")

	var err error
	switch {
	case opUsed == findingUsed:
		err = fmt.Errorf("replay requires exactly one of --op or --finding")
	case findingUsed && len(args) > 0:
		err = fmt.Errorf("replay does not accept operands with --finding")
	case opUsed && len(args) == 0:
		err = fmt.Errorf("replay requires the operands of the operation as positional arguments")
	}
	if err != nil {
		cmdLogger.Error("Failed to validate args to the replay command", err)
		return err
	}
	return nil
}

// cmdRunReplay executes the CLI replay command. It exits with exitcodes.ExitCodeTestFailed if the oracles did not agree.
func cmdRunReplay(cmd *cobra.Command, args []string) error {
	op, operandTuple, err := resolveReplayCase(cmd, args)
	if err != nil {
		cmdLogger.Error("Failed to run the replay command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

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

	var referenceOracle oracles.Oracle
	noReference, err := cmd.Flags().GetBool("no-reference")
	if err != nil {
		return err
	}
	if !noReference {
		referenceOracle = reference.NewOracle()
	}

	result, err := fuzzing.Replay(native.NewOracle(), foreignOracle, referenceOracle, op, operandTuple)
	if err != nil {
		cmdLogger.Error("Failed to run the replay command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	if result.Verdict.Agree() {
		cmdLogger.Info(colors.GreenBold, colors.CHECK, " Oracles agree", colors.Reset, "\n", result.String())
		return nil
	}
	cmdLogger.Error(colors.RedBold, colors.CROSS, " ", result.Verdict.Failure.Kind, colors.Reset, "\n", result.String())
	return exitcodes.NewErrorWithExitCode(nil, exitcodes.ExitCodeTestFailed)
}

// resolveReplayCase obtains the operation and operands to replay, either from the command line or from a recorded
// finding.
func resolveReplayCase(cmd *cobra.Command, args []string) (operations.Operation, operands.Tuple, error) {
	if cmd.Flags().Changed("op") {
		opName, err := cmd.Flags().GetString("op")
		if err != nil {
			return 0, nil, err
		}
		op, err := operations.Parse(opName)
		if err != nil {
			return 0, nil, err
		}
		operandTuple, err := operands.ParseTuple(args)
		if err != nil {
			return 0, nil, err
		}
		if operandTuple.Arity() != op.Arity() {
			return 0, nil, errors.Wrapf(operations.ErrArityMismatch, "%v takes %d operands, got %d", op, op.Arity(), operandTuple.Arity())
		}
		return op, operandTuple, nil
	}

	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		return 0, nil, err
	}
	err = updateProjectConfigWithReplayFlags(cmd, projectConfig)
	if err != nil {
		return 0, nil, err
	}
	if projectConfig.Fuzzing.FindingsDatabase == "" {
		return 0, nil, errors.New("no findings database is configured")
	}

	findingID, err := cmd.Flags().GetString("finding")
	if err != nil {
		return 0, nil, err
	}
	store, err := findings.Open(projectConfig.Fuzzing.FindingsDatabase)
	if err != nil {
		return 0, nil, err
	}
	defer store.Close()

	record, err := store.Get(findingID)
	if err != nil {
		return 0, nil, err
	}
	cmdLogger.Info("Replaying finding ", colors.Bold, record.ID, colors.Reset, " (", record.Kind, ", first seen ",
		record.FirstSeenTime().Format("2006-01-02 15:04:05"), ")")
	return fuzzing.ReplayCase(record)
}
