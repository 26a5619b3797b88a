package testutils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExecuteInDirectory executes the given method with the working directory changed to directory, then restores the
// previous working directory. This wraps tests which resolve paths relative to the working directory, so any file
// artifacts they generate do not end up in the codebase directories.
func ExecuteInDirectory(t *testing.T, directory string, method func()) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	require.NoError(t, os.Chdir(directory))
	defer func() {
		// We must leave the test directory or else clean up will fail post testing
		require.NoError(t, os.Chdir(cwd))
	}()

	method()
}
