package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/crytic/u256diff/cmd/exitcodes"
	"github.com/crytic/u256diff/fuzzing/findings"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// findingsCmd represents the command provider for listing recorded findings
var findingsCmd = &cobra.Command{
	Use:   "findings [ID]",
	Short: "Lists recorded findings",
	Long: `Lists the findings recorded in the findings database. When an ID, or an unambiguous ID prefix, is
provided, the full record of that finding is printed instead.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: cmdValidFlagArgs,
	RunE:              cmdRunFindings,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	findingsCmd.Flags().String("config", "", "path to config file")
	findingsCmd.Flags().String("findings-db", "", "path of the findings database, overriding the config file")
	rootCmd.AddCommand(findingsCmd)
}

// cmdRunFindings executes the CLI findings command
func cmdRunFindings(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err == nil {
		err = updateProjectConfigWithReplayFlags(cmd, projectConfig)
	}
	if err == nil && projectConfig.Fuzzing.FindingsDatabase == "" {
		err = errors.New("no findings database is configured")
	}
	if err != nil {
		cmdLogger.Error("Failed to run the findings command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	store, err := findings.Open(projectConfig.Fuzzing.FindingsDatabase)
	if err != nil {
		cmdLogger.Error("Failed to open the findings database", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer store.Close()

	if len(args) == 1 {
		record, err := store.Get(args[0])
		if err != nil {
			cmdLogger.Error("Failed to run the findings command", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		fmt.Print(formatRecord(record))
		return nil
	}

	records, err := store.List()
	if err != nil {
		cmdLogger.Error("Failed to run the findings command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	if len(records) == 0 {
		fmt.Println("No findings recorded.")
		return nil
	}
	return writeFindingsTable(records)
}

// writeFindingsTable prints a summary line for every record.
func writeFindingsTable(records []findings.Record) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tKIND\tOPERATION\tOPERANDS\tSEEN\tFIRST SEEN"); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for _, record := range records {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			shortID(record.ID),
			record.Kind,
			record.Operation,
			strings.Join(record.Operands, ", "),
			record.Occurrences,
			record.FirstSeenTime().Format("2006-01-02 15:04:05"),
		); err != nil {
			return errors.Wrap(err, "failed to write finding")
		}
	}
	return errors.Wrap(w.Flush(), "failed to flush writer")
}

// shortID truncates a record ID for display. Get accepts the truncated form as a prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatRecord renders every field of a record.
func formatRecord(record findings.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:          %s\n", record.ID))
	sb.WriteString(fmt.Sprintf("Fingerprint: %s\n", record.FingerprintHex()))
	sb.WriteString(fmt.Sprintf("Kind:        %s\n", record.Kind))
	sb.WriteString(fmt.Sprintf("Operation:   %s\n", record.Operation))
	for i, operand := range record.Operands {
		sb.WriteString(fmt.Sprintf("Operand %d:   %s\n", i, operand))
	}
	if record.Native != "" {
		sb.WriteString(fmt.Sprintf("Native:      %s\n", record.Native))
	}
	if record.Foreign != "" {
		sb.WriteString(fmt.Sprintf("Foreign:     %s\n", record.Foreign))
	}
	if record.Cause != "" {
		sb.WriteString(fmt.Sprintf("Cause:       %s\n", record.Cause))
	}
	if len(record.Seed) > 0 {
		sb.WriteString(fmt.Sprintf("Seed:        (%s)\n", strings.Join(record.Seed, ", ")))
	}
	if len(record.Input) > 0 {
		sb.WriteString(fmt.Sprintf("Input:       0x%x\n", record.Input))
	}
	sb.WriteString(fmt.Sprintf("Seen:        %d times, first at %s\n", record.Occurrences, record.FirstSeenTime().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Recorded by: u256diff %s (campaign %s)\n", record.ToolVersion, record.CampaignID))
	return sb.String()
}
