package utils

import "math/big"

// GetIntegerConstraints returns the inclusive minimum and maximum values of an integer with the provided signedness
// and bit length.
func GetIntegerConstraints(signed bool, bitLength int) (*big.Int, *big.Int) {
	if signed {
		// [-(2^(bitLength-1)), 2^(bitLength-1) - 1]
		half := new(big.Int).Lsh(big.NewInt(1), uint(bitLength-1))
		return new(big.Int).Neg(half), half.Sub(half, big.NewInt(1))
	}

	// [0, 2^bitLength - 1]
	max := new(big.Int).Lsh(big.NewInt(1), uint(bitLength))
	return big.NewInt(0), max.Sub(max, big.NewInt(1))
}

// ConstrainIntegerToBitLength wraps b into the range of an integer with the provided signedness and bit length, the
// way fixed-width arithmetic overflows and underflows. A new integer is returned and b is left untouched.
func ConstrainIntegerToBitLength(b *big.Int, signed bool, bitLength int) *big.Int {
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(bitLength))

	// Euclidean modulus, so the result lies in [0, 2^bitLength) even for negative b
	wrapped := new(big.Int).Mod(b, modulus)
	if !signed {
		return wrapped
	}

	// Values with the sign bit set represent negative numbers in two's complement
	if wrapped.Bit(bitLength-1) == 1 {
		wrapped.Sub(wrapped, modulus)
	}
	return wrapped
}
