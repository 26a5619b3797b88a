package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfigIsValid verifies the default project config passes validation.
func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultProjectConfig()
	require.NoError(t, cfg.Validate())

	ops, err := cfg.Fuzzing.ResolveOperations()
	require.NoError(t, err)
	assert.Len(t, ops, 16)
}

// TestResolveOperations covers named sets and explicit operation lists for both targets.
func TestResolveOperations(t *testing.T) {
	cfg := GetDefaultProjectConfig()

	cfg.Fuzzing.Target = TargetTernary
	ops, err := cfg.Fuzzing.ResolveOperations()
	require.NoError(t, err)
	assert.Equal(t, []operations.Operation{operations.AddMod, operations.MulMod}, ops)

	cfg.Fuzzing.Target = TargetBinary
	cfg.Fuzzing.OperationSet = OperationSetHighValue
	ops, err = cfg.Fuzzing.ResolveOperations()
	require.NoError(t, err)
	assert.Equal(t, []operations.Operation{
		operations.Div, operations.SDiv, operations.Mod, operations.SMod, operations.Exp, operations.SignExtend,
		operations.Sar,
	}, ops)

	cfg.Fuzzing.OperationSet = "everything"
	_, err = cfg.Fuzzing.ResolveOperations()
	assert.Error(t, err)

	// Explicit lists take precedence over the named set and must match the target arity
	cfg.Fuzzing.Operations = []string{"sar", "SDIV"}
	ops, err = cfg.Fuzzing.ResolveOperations()
	require.NoError(t, err)
	assert.Equal(t, []operations.Operation{operations.Sar, operations.SDiv}, ops)

	cfg.Fuzzing.Operations = []string{"ADD", "MULMOD"}
	_, err = cfg.Fuzzing.ResolveOperations()
	assert.True(t, errors.Is(err, operations.ErrArityMismatch))

	cfg.Fuzzing.Target = "quaternary"
	_, err = cfg.Fuzzing.ResolveOperations()
	assert.Error(t, err)
}

// TestValidate verifies invalid configurations are rejected.
func TestValidate(t *testing.T) {
	cfg := GetDefaultProjectConfig()
	cfg.Fuzzing.MaxInputLength = 1
	assert.Error(t, cfg.Validate())

	cfg = GetDefaultProjectConfig()
	cfg.Fuzzing.Target = TargetTernary
	cfg.Fuzzing.MaxInputLength = 9
	assert.Error(t, cfg.Validate())
	cfg.Fuzzing.MaxInputLength = 10
	assert.NoError(t, cfg.Validate())

	cfg = GetDefaultProjectConfig()
	cfg.Fuzzing.Operations = []string{"NOPE"}
	assert.Error(t, cfg.Validate())
}

// TestConfigFileRoundTrip writes a config to disk and reads it back, and checks missing fields keep their defaults.
func TestConfigFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultProjectConfigFilename)

	cfg := GetDefaultProjectConfig()
	cfg.Fuzzing.Target = TargetTernary
	cfg.Fuzzing.Seed = 99
	cfg.Logging.Level = zerolog.DebugLevel
	require.NoError(t, cfg.WriteToFile(path))

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, read)

	partial := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"fuzzing": {"testLimit": 500}}`), 0644))
	read, err = ReadProjectConfigFromFile(partial)
	require.NoError(t, err)
	assert.EqualValues(t, 500, read.Fuzzing.TestLimit)
	assert.Equal(t, TargetBinary, read.Fuzzing.Target)
	assert.Equal(t, zerolog.InfoLevel, read.Logging.Level)

	require.NoError(t, os.WriteFile(partial, []byte(`{"fuzzing": `), 0644))
	_, err = ReadProjectConfigFromFile(partial)
	assert.Error(t, err)
}
