package bitutil

import "strings"

const loadFactor = 0.75

// BitArray is a growable array of bits stored compactly in uint32 words. It
// is used to pack m-bit field symbols back into a byte stream.
type BitArray struct {
	bits []uint32
	size int
}

// NewBitArray creates an empty BitArray with room for capacity bits.
func NewBitArray(capacity int) *BitArray {
	if capacity <= 0 {
		return &BitArray{}
	}
	return &BitArray{bits: makeArray(capacity)}
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

// SizeInBytes returns the number of bytes needed to hold the bits.
func (ba *BitArray) SizeInBytes() int {
	return (ba.size + 7) / 8
}

func (ba *BitArray) ensureCapacity(newSize int) {
	if newSize > len(ba.bits)*32 {
		newBits := makeArray(int(float64(newSize) / loadFactor))
		copy(newBits, ba.bits)
		ba.bits = newBits
	}
}

// Get returns true if bit i is set.
func (ba *BitArray) Get(i int) bool {
	return (ba.bits[i/32] & (1 << uint(i&0x1F))) != 0
}

// AppendBits appends the least-significant numBits bits of value, from most
// significant to least significant.
func (ba *BitArray) AppendBits(value uint32, numBits int) {
	if numBits < 0 || numBits > 32 {
		panic("bitarray: numBits must be between 0 and 32")
	}
	nextSize := ba.size
	ba.ensureCapacity(nextSize + numBits)
	for numBitsLeft := numBits - 1; numBitsLeft >= 0; numBitsLeft-- {
		if (value & (1 << uint(numBitsLeft))) != 0 {
			ba.bits[nextSize/32] |= 1 << uint(nextSize&0x1F)
		}
		nextSize++
	}
	ba.size = nextSize
}

// Bytes returns the bits as bytes, most-significant bit first, with the last
// byte zero-padded.
func (ba *BitArray) Bytes() []byte {
	out := make([]byte, ba.SizeInBytes())
	for i := 0; i < ba.size; i++ {
		if ba.Get(i) {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// String returns a string representation using 'X' for set and '.' for unset.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size + ba.size/8 + 1)
	for i := 0; i < ba.size; i++ {
		if i&0x07 == 0 {
			sb.WriteByte(' ')
		}
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// PackSymbols concatenates the low bitsPerSymbol bits of each symbol into a
// byte stream, zero-padded to a whole byte. UnpackSymbolsN reverses it.
func PackSymbols(symbols []int, bitsPerSymbol int) []byte {
	ba := NewBitArray(len(symbols) * bitsPerSymbol)
	for _, s := range symbols {
		ba.AppendBits(uint32(s), bitsPerSymbol)
	}
	return ba.Bytes()
}

func makeArray(size int) []uint32 {
	return make([]uint32, (size+31)/32)
}
