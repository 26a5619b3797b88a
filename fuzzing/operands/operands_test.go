package operands

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeInsufficientInput verifies the minimum input lengths per arity.
func TestDecodeInsufficientInput(t *testing.T) {
	testCases := []struct {
		arity  int
		length int
		ok     bool
	}{
		{2, 0, false},
		{2, 1, false},
		{2, 2, true},
		{3, 9, false},
		{3, 10, true},
	}
	for _, tc := range testCases {
		_, err := Decode(make([]byte, tc.length), tc.arity)
		if tc.ok {
			assert.NoError(t, err, "arity %d length %d", tc.arity, tc.length)
		} else {
			assert.True(t, errors.Is(err, ErrInsufficientInput), "arity %d length %d", tc.arity, tc.length)
		}
	}

	_, err := Decode(make([]byte, 64), 4)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInsufficientInput))
}

// TestDecodeShortChunks verifies that short chunks occupy the most significant bytes of the operand.
func TestDecodeShortChunks(t *testing.T) {
	tuple, err := Decode([]byte{0x01, 0x02}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, tuple.Arity())

	// 0x01 followed by 31 zero bytes is 2^248
	assert.Equal(t, new(uint256.Int).Lsh(uint256.NewInt(1), 248), &tuple[0])
	assert.Equal(t, new(uint256.Int).Lsh(uint256.NewInt(2), 248), &tuple[1])

	// An uneven split gives the remainder to the last chunk
	tuple, err = Decode([]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x11, 0x22, 0x33, 0x44, 0x55}, 3)
	require.NoError(t, err)
	first := tuple[0].Bytes32()
	last := tuple[2].Bytes32()
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 0x00}, first[:4])
	assert.Equal(t, []byte{0x33, 0x44, 0x55, 0x00}, last[2:6])
}

// TestDecodeTruncatesLongChunks verifies that bytes past the first 32 of a chunk are ignored.
func TestDecodeTruncatesLongChunks(t *testing.T) {
	data := make([]byte, 80)
	for i := range data {
		data[i] = byte(i)
	}
	tuple, err := Decode(data, 2)
	require.NoError(t, err)

	first := tuple[0].Bytes32()
	second := tuple[1].Bytes32()
	assert.Equal(t, data[0:32], first[:])
	assert.Equal(t, data[40:72], second[:])
}

// TestCodecRoundTrip verifies that exactly 32-byte big-endian operands survive Encode/Decode unchanged.
func TestCodecRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, arity := range []int{2, 3} {
		for i := 0; i < 64; i++ {
			seed := make(Tuple, arity)
			for j := range seed {
				var raw [32]byte
				rng.Read(raw[:])
				seed[j].SetBytes32(raw[:])
			}
			decoded, err := Decode(Encode(seed), arity)
			require.NoError(t, err)
			assert.True(t, seed.Equal(decoded), "round trip of %v", seed)
		}
	}
}

// TestGenerateVariantsBinary checks the exact variant order for a two operand seed.
func TestGenerateVariantsBinary(t *testing.T) {
	seed := FromUint64s(2, 4)
	variants := GenerateVariants(seed)
	require.Len(t, variants, 6)

	assert.True(t, variants[0].Equal(seed))
	assert.True(t, variants[1].Equal(FromUint64s(4, 2)))

	var notTwo, notFour uint256.Int
	notTwo.Not(uint256.NewInt(2))
	notFour.Not(uint256.NewInt(4))
	assert.True(t, variants[2].Equal(NewTuple(&notTwo, &notFour)))

	assert.True(t, variants[3].Equal(NewTuple(uint256.NewInt(2), I128Min)))
	assert.True(t, variants[4].Equal(NewTuple(uint256.NewInt(2), U256Max)))
	assert.True(t, variants[5].Equal(NewTuple(uint256.NewInt(2), U64Max)))
}

// TestGenerateVariantsTernary checks rotation and one-position substitutions for a three operand seed.
func TestGenerateVariantsTernary(t *testing.T) {
	seed := FromUint64s(2, 4, 6)
	variants := GenerateVariants(seed)
	require.Len(t, variants, 9)

	assert.True(t, variants[0].Equal(seed))
	assert.True(t, variants[1].Equal(FromUint64s(4, 6, 2)))
	for _, v := range variants[3:] {
		differing := 0
		for i := range v {
			if !v[i].Eq(&seed[i]) {
				differing++
			}
		}
		assert.Equal(t, 1, differing, "variant %v", v)
		assert.True(t, v[0].Eq(&seed[0]), "leading operand must be kept: %v", v)
	}
}

// TestGenerateVariantsProperties checks invariants over random seeds: seed first, a full complement present, and
// the seed left untouched.
func TestGenerateVariantsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		data := make([]byte, 2+rng.Intn(120))
		rng.Read(data)
		arity := 2 + i%2
		seed, err := Decode(data, 2)
		if arity == 3 {
			seed, err = Decode(append(data, make([]byte, 10)...), 3)
		}
		require.NoError(t, err)
		original := seed.Clone()

		variants := GenerateVariants(seed)
		require.NotEmpty(t, variants)
		assert.True(t, variants[0].Equal(original))
		assert.True(t, seed.Equal(original))

		complement := make(Tuple, seed.Arity())
		for j := range seed {
			complement[j].Not(&seed[j])
		}
		found := false
		for _, v := range variants {
			if v.Equal(complement) {
				found = true
			}
		}
		assert.True(t, found)

		// Mutating a variant must not leak into the seed
		variants[0][0].SetAllOne()
		assert.True(t, seed.Equal(original))
	}
}

// TestBoundaryValues verifies the encoded form of the boundary constants.
func TestBoundaryValues(t *testing.T) {
	i128 := I128Min.Bytes32()
	assert.True(t, bytes.Equal(bytes.Repeat([]byte{0xff}, 16), i128[:16]))
	assert.Equal(t, byte(0x80), i128[16])
	assert.True(t, bytes.Equal(make([]byte, 15), i128[17:]))

	assert.Equal(t, "0xffffffffffffffff", U64Max.Hex())
	assert.Equal(t, 256, U256Max.BitLen())
}

// TestParse verifies decimal, hexadecimal and negative operand parsing.
func TestParse(t *testing.T) {
	v, err := Parse("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v.Uint64())

	v, err = Parse("0x2a")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v.Uint64())

	v, err = Parse("-1")
	require.NoError(t, err)
	assert.Equal(t, *U256Max, v)

	v, err = Parse("-57896044618658097711785492504343953926634992332820282019728792003956564819968")
	require.NoError(t, err)
	assert.Equal(t, 255, v.BitLen()-1)

	_, err = Parse("-57896044618658097711785492504343953926634992332820282019728792003956564819969")
	assert.Error(t, err)

	_, err = Parse("0x1" + string(bytes.Repeat([]byte{'0'}, 64)))
	assert.Error(t, err)

	_, err = Parse("nope")
	assert.Error(t, err)

	for _, empty := range []string{"", "-", "   "} {
		_, err = Parse(empty)
		assert.Error(t, err, "operand %q", empty)
	}

	tuple, err := ParseTuple([]string{"2", "0x4", "6"})
	require.NoError(t, err)
	assert.True(t, tuple.Equal(FromUint64s(2, 4, 6)))
	assert.Equal(t, "(0x2, 0x4, 0x6)", tuple.String())
}
