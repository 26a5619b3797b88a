package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

// TestCreateFile verifies files are created in nested directories which do not exist yet.
func TestCreateFile(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "logs", "campaign")
	file, err := CreateFile(directory, "u256diff.log")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	info, err := os.Stat(filepath.Join(directory, "u256diff.log"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

// TestMakeDirectory verifies existing directories are accepted and existing files are rejected.
func TestMakeDirectory(t *testing.T) {
	directory := t.TempDir()
	assert.NoError(t, MakeDirectory(directory))

	filePath := filepath.Join(directory, "findings.db")
	require.NoError(t, os.WriteFile(filePath, []byte{}, 0644))
	assert.Error(t, MakeDirectory(filePath))

	assert.NoError(t, MakeParentDirectory(filepath.Join(directory, "nested", "findings.db")))
	info, err := os.Stat(filepath.Join(directory, "nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, MakeParentDirectory("findings.db"))
}

// TestCheckContextDone verifies cancellation is observed without blocking.
func TestCheckContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.False(t, CheckContextDone(ctx))
	cancel()
	assert.True(t, CheckContextDone(ctx))
}
