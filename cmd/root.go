package cmd

import (
	"github.com/crytic/u256diff/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger that will be used for the cmd package
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true)

var rootCmd = &cobra.Command{
	Use:   "u256diff",
	Short: "A differential fuzzer for 256-bit EVM arithmetic",
	Long: "u256diff compares a native and a foreign implementation of 256-bit EVM arithmetic over generated operands " +
		"and reports the first disagreement",
}

// Execute provides an exportable function to invoke the CLI. Returns an error if one was encountered.
func Execute() error {
	return rootCmd.Execute()
}
