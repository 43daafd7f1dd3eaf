// Package reedsolomon implements Reed-Solomon error correction coding over
// GF(2^m), as used by QR Code, Data Matrix, Aztec and MaxiCode.
package reedsolomon

import (
	"errors"
	"fmt"

	"github.com/ericlevine/zxingrs/bitutil"
)

const maxFieldSize = 1 << 16

var (
	// ErrInvalidFieldSize is returned for a field size that is not a power of
	// two between 2 and 65536.
	ErrInvalidFieldSize = errors.New("reedsolomon: field size must be a power of two")

	// ErrInvalidPrimitive is returned when the primitive polynomial's degree
	// does not match the field size.
	ErrInvalidPrimitive = errors.New("reedsolomon: primitive polynomial degree does not match field size")

	// ErrNotPrimitive is returned when 2 does not generate every nonzero
	// element under the given reduction polynomial.
	ErrNotPrimitive = errors.New("reedsolomon: polynomial is not primitive")

	// ErrInvalidGeneratorBase is returned for a generator base outside
	// [0, size-1).
	ErrInvalidGeneratorBase = errors.New("reedsolomon: invalid generator base")
)

// GenericGF represents a Galois Field for Reed-Solomon coding. A GenericGF is
// immutable once constructed and safe for concurrent use.
type GenericGF struct {
	// expTable has 2*(size-1)+1 entries so that the sum of two logarithms
	// never needs reducing.
	expTable      []int
	logTable      []int
	zero          *GenericGFPoly
	one           *GenericGFPoly
	size          int
	primitive     int
	generatorBase int
}

// NewGenericGF creates a GF(size) using the given primitive polynomial.
// generatorBase is the exponent of the first root of the generator
// polynomial, typically 0 or 1 depending on the symbology.
func NewGenericGF(primitive, size, generatorBase int) (*GenericGF, error) {
	if size < 2 || size > maxFieldSize || bitutil.CountBitsSet(uint32(size)) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFieldSize, size)
	}
	if primitive <= 0 || primitive >= 2*size ||
		bitutil.HighestBitSet(uint32(primitive)) != bitutil.HighestBitSet(uint32(size)) {
		return nil, fmt.Errorf("%w: 0x%x for size %d", ErrInvalidPrimitive, primitive, size)
	}
	if generatorBase < 0 || generatorBase >= size-1 {
		return nil, fmt.Errorf("%w: %d for size %d", ErrInvalidGeneratorBase, generatorBase, size)
	}

	gf := &GenericGF{
		primitive:     primitive,
		size:          size,
		generatorBase: generatorBase,
		expTable:      make([]int, 2*(size-1)+1),
		logTable:      make([]int, size),
	}

	x := 1
	for i := 0; i < size-1; i++ {
		if x == 1 && i > 0 {
			return nil, fmt.Errorf("%w: 0x%x has period %d, want %d", ErrNotPrimitive, primitive, i, size-1)
		}
		gf.expTable[i] = x
		gf.logTable[x] = i
		x *= 2
		if x >= size {
			x ^= primitive
			x &= size - 1
		}
	}
	if x != 1 {
		return nil, fmt.Errorf("%w: 0x%x", ErrNotPrimitive, primitive)
	}
	for i := size - 1; i < len(gf.expTable); i++ {
		gf.expTable[i] = gf.expTable[i-(size-1)]
	}

	gf.zero = &GenericGFPoly{field: gf, coefficients: []int{0}}
	gf.one = &GenericGFPoly{field: gf, coefficients: []int{1}}

	return gf, nil
}

// MustGenericGF is like NewGenericGF but panics if the parameters are
// invalid. It simplifies initialization of package-level fields.
func MustGenericGF(primitive, size, generatorBase int) *GenericGF {
	gf, err := NewGenericGF(primitive, size, generatorBase)
	if err != nil {
		panic(err)
	}
	return gf
}

// Zero returns the zero polynomial.
func (gf *GenericGF) Zero() *GenericGFPoly { return gf.zero }

// One returns the one polynomial.
func (gf *GenericGF) One() *GenericGFPoly { return gf.one }

// BuildMonomial returns coefficient * x^degree.
func (gf *GenericGF) BuildMonomial(degree, coefficient int) *GenericGFPoly {
	if degree < 0 {
		fault("BuildMonomial", "negative degree")
	}
	if coefficient == 0 {
		return gf.zero
	}
	coefficients := make([]int, degree+1)
	coefficients[0] = coefficient
	return &GenericGFPoly{field: gf, coefficients: coefficients}
}

// AddOrSubtract computes a XOR b (addition and subtraction are the same in GF(2^n)).
func AddOrSubtract(a, b int) int {
	return a ^ b
}

// Exp returns 2^a in this field. a must be non-negative.
func (gf *GenericGF) Exp(a int) int {
	if a >= len(gf.expTable) {
		a %= gf.size - 1
	}
	return gf.expTable[a]
}

// Log returns log2(a) in this field.
func (gf *GenericGF) Log(a int) int {
	if a == 0 {
		fault("Log", "log(0)")
	}
	return gf.logTable[a]
}

// Inverse returns the multiplicative inverse of a.
func (gf *GenericGF) Inverse(a int) int {
	if a == 0 {
		fault("Inverse", "inverse(0)")
	}
	return gf.expTable[gf.size-1-gf.logTable[a]]
}

// Multiply returns a * b in this field.
func (gf *GenericGF) Multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return gf.expTable[gf.logTable[a]+gf.logTable[b]]
}

// Size returns the size of the field.
func (gf *GenericGF) Size() int { return gf.size }

// Primitive returns the reduction polynomial as a bit pattern.
func (gf *GenericGF) Primitive() int { return gf.primitive }

// GeneratorBase returns the generator base.
func (gf *GenericGF) GeneratorBase() int { return gf.generatorBase }

// SymbolBits returns m for GF(2^m).
func (gf *GenericGF) SymbolBits() int { return bitutil.HighestBitSet(uint32(gf.size)) }

// String returns a string representation.
func (gf *GenericGF) String() string {
	return fmt.Sprintf("GF(0x%x,%d)", gf.primitive, gf.size)
}
