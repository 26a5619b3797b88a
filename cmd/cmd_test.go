package cmd

import (
	"path/filepath"
	"testing"

	"github.com/crytic/u256diff/cmd/exitcodes"
	"github.com/crytic/u256diff/fuzzing/config"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/utils/testutils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFuzzCmd creates a command carrying the fuzz command's flags, so tests do not mutate the registered command.
func newTestFuzzCmd(t *testing.T) *cobra.Command {
	testCmd := &cobra.Command{Use: "fuzz"}
	require.NoError(t, addFuzzFlags(testCmd))
	return testCmd
}

// TestUpdateProjectConfigWithFuzzFlags verifies flags override the fields of the project configuration.
func TestUpdateProjectConfigWithFuzzFlags(t *testing.T) {
	testCmd := newTestFuzzCmd(t)
	require.NoError(t, testCmd.Flags().Set("target", config.TargetTernary))
	require.NoError(t, testCmd.Flags().Set("ops", "ADDMOD,MULMOD"))
	require.NoError(t, testCmd.Flags().Set("test-limit", "500"))
	require.NoError(t, testCmd.Flags().Set("seed", "42"))
	require.NoError(t, testCmd.Flags().Set("no-findings", "true"))
	require.NoError(t, testCmd.Flags().Set("log-level", "debug"))

	projectConfig := config.GetDefaultProjectConfig()
	require.NoError(t, updateProjectConfigWithFuzzFlags(testCmd, projectConfig))
	assert.Equal(t, config.TargetTernary, projectConfig.Fuzzing.Target)
	assert.Equal(t, []string{"ADDMOD", "MULMOD"}, projectConfig.Fuzzing.Operations)
	assert.EqualValues(t, 500, projectConfig.Fuzzing.TestLimit)
	assert.EqualValues(t, 42, projectConfig.Fuzzing.Seed)
	assert.Empty(t, projectConfig.Fuzzing.FindingsDatabase)
	assert.Equal(t, zerolog.DebugLevel, projectConfig.Logging.Level)
	assert.NoError(t, projectConfig.Validate())

	// Unchanged flags keep the configured values
	assert.Equal(t, config.GetDefaultProjectConfig().Fuzzing.MaxInputLength, projectConfig.Fuzzing.MaxInputLength)
}

// TestLoadProjectConfig verifies an explicit config file is read and a missing explicit file is an error.
func TestLoadProjectConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), DefaultProjectConfigFilename)
	written := config.GetDefaultProjectConfig()
	written.Fuzzing.Target = config.TargetTernary
	written.Fuzzing.Seed = 7
	require.NoError(t, written.WriteToFile(configPath))

	testCmd := newTestFuzzCmd(t)
	require.NoError(t, testCmd.Flags().Set("config", configPath))
	projectConfig, err := loadProjectConfig(testCmd)
	require.NoError(t, err)
	assert.Equal(t, config.TargetTernary, projectConfig.Fuzzing.Target)
	assert.EqualValues(t, 7, projectConfig.Fuzzing.Seed)

	testCmd = newTestFuzzCmd(t)
	require.NoError(t, testCmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.json")))
	_, err = loadProjectConfig(testCmd)
	assert.Error(t, err)
}

// TestResolveReplayCase verifies operands given on the command line are parsed for the chosen operation.
func TestResolveReplayCase(t *testing.T) {
	testCmd := &cobra.Command{Use: "replay"}
	require.NoError(t, addReplayFlags(testCmd))
	require.NoError(t, testCmd.Flags().Set("op", "mulmod"))

	op, args, err := resolveReplayCase(testCmd, []string{"2", "0x4", "6"})
	require.NoError(t, err)
	assert.Equal(t, operations.MulMod, op)
	assert.Equal(t, "(0x2, 0x4, 0x6)", args.String())

	_, _, err = resolveReplayCase(testCmd, []string{"2", "nope", "6"})
	assert.Error(t, err)

	// Operand counts not matching the operation are usage errors, not findings
	_, _, err = resolveReplayCase(testCmd, []string{"2", "4"})
	assert.ErrorIs(t, err, operations.ErrArityMismatch)

	addCmd := &cobra.Command{Use: "replay"}
	require.NoError(t, addReplayFlags(addCmd))
	require.NoError(t, addCmd.Flags().Set("op", "add"))
	err = cmdRunReplay(addCmd, []string{"1", "2", "3"})
	_, exitCode := exitcodes.GetInnerErrorAndExitCode(err)
	assert.Equal(t, exitcodes.ExitCodeHandledError, exitCode)
}

// TestLoadProjectConfigDefaultFile verifies the default config file is read from the working directory, and that
// the default configuration is used when it does not exist.
func TestLoadProjectConfigDefaultFile(t *testing.T) {
	directory := t.TempDir()
	testutils.ExecuteInDirectory(t, directory, func() {
		projectConfig, err := loadProjectConfig(newTestFuzzCmd(t))
		require.NoError(t, err)
		assert.Equal(t, config.GetDefaultProjectConfig(), projectConfig)

		written := config.GetDefaultProjectConfig()
		written.Fuzzing.OperationSet = config.OperationSetHighValue
		require.NoError(t, written.WriteToFile(DefaultProjectConfigFilename))

		projectConfig, err = loadProjectConfig(newTestFuzzCmd(t))
		require.NoError(t, err)
		assert.Equal(t, config.OperationSetHighValue, projectConfig.Fuzzing.OperationSet)
	})
}
