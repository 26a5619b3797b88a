package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// opsCmd represents the command provider for listing the operation registry
var opsCmd = &cobra.Command{
	Use:           "ops",
	Short:         "Lists the supported operations",
	Long:          `Lists every operation the oracles are compared on, with its arity and whether it is in the high-value set`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunOps,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(opsCmd)
}

// cmdRunOps executes the CLI ops command
func cmdRunOps(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(w, "OPERATION\tARITY\tHIGH VALUE"); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for _, op := range operations.All() {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%t\n", op, op.Arity(), op.HighValue()); err != nil {
			return errors.Wrap(err, "failed to write operation")
		}
	}
	return errors.Wrap(w.Flush(), "failed to flush writer")
}
