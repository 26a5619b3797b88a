package cmd

import (
	"fmt"

	"github.com/crytic/u256diff/fuzzing/oracles/foreign"
	"github.com/crytic/u256diff/version"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command that displays build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Long: `Print detailed version and build information for u256diff.

This includes the semantic version, git commit hash, the Go version used to
compile the binary and the ABI version of the linked foreign library.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetInfo()
		fmt.Print(info.String())

		lib, err := foreign.Open()
		if err != nil {
			fmt.Printf("Foreign library: unavailable (%v)\n", err)
			return
		}
		fmt.Printf("Foreign library: %s\n", lib.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
