package operations

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistryShape checks the full and high-value sets against the operation table.
func TestRegistryShape(t *testing.T) {
	all := All()
	assert.Len(t, all, 18)
	assert.Equal(t, Add, all[0])
	assert.Equal(t, MulMod, all[len(all)-1])

	assert.Equal(t,
		[]Operation{Div, SDiv, Mod, SMod, Exp, SignExtend, Sar, AddMod, MulMod},
		HighValueSet(),
	)

	for _, op := range all {
		if op == AddMod || op == MulMod {
			assert.Equal(t, 3, op.Arity(), op.String())
		} else {
			assert.Equal(t, 2, op.Arity(), op.String())
		}
	}
}

// TestParse verifies name resolution round-trips through String.
func TestParse(t *testing.T) {
	for _, op := range All() {
		parsed, err := Parse(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	op, err := Parse(" mulmod ")
	require.NoError(t, err)
	assert.Equal(t, MulMod, op)

	_, err = Parse("SLT")
	assert.Error(t, err)

	// Unknown names failures outside any operation and can never be replayed
	assert.False(t, Unknown.Valid())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Zero(t, Unknown.Arity())
	_, err = Parse(Unknown.String())
	assert.Error(t, err)

	_, err = ParseAll([]string{"add", "ADD"})
	assert.Error(t, err)
}

// TestArityChecks verifies the configuration-time arity filtering and rejection.
func TestArityChecks(t *testing.T) {
	assert.Equal(t, []Operation{AddMod, MulMod}, FilterByArity(All(), 3))
	assert.Len(t, FilterByArity(All(), 2), 16)
	assert.Equal(t, []Operation{Div, SDiv, Mod, SMod, Exp, SignExtend, Sar}, FilterByArity(HighValueSet(), 2))

	assert.NoError(t, CheckArity([]Operation{Add, Sar}, 2))
	err := CheckArity([]Operation{Add, MulMod}, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArityMismatch))

	assert.Error(t, CheckArity([]Operation{Operation(200)}, 2))
	assert.Equal(t, "Operation(200)", Operation(200).String())
}
