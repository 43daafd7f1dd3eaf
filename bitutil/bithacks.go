// Package bitutil provides bit manipulation utilities used to build field
// tables and to move symbols between packed bytes and integer codewords.
package bitutil

import "math/bits"

// NumberOfLeadingZeros returns the number of zero bits above the highest set
// bit of x. It returns 32 for x == 0.
func NumberOfLeadingZeros(x uint32) int {
	return bits.LeadingZeros32(x)
}

// NumberOfTrailingZeros returns the number of zero bits below the lowest set
// bit of x. It returns 32 for x == 0.
func NumberOfTrailingZeros(x uint32) int {
	return bits.TrailingZeros32(x)
}

// Reverse returns x with its bits in reverse order.
func Reverse(x uint32) uint32 {
	return bits.Reverse32(x)
}

// CountBitsSet returns the population count of x.
func CountBitsSet(x uint32) int {
	return bits.OnesCount32(x)
}

// HighestBitSet returns floor(log2(x)). HighestBitSet(0) is 0.
func HighestBitSet(x uint32) int {
	if x == 0 {
		return 0
	}
	return 31 - bits.LeadingZeros32(x)
}
