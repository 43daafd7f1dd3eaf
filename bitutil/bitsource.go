package bitutil

import "fmt"

// BitSource reads bits from a byte sequence where the number of bits read
// is not necessarily a multiple of 8.
type BitSource struct {
	bytes      []byte
	byteOffset int
	bitOffset  int
}

// NewBitSource creates a new BitSource from a byte slice.
// Bits are read from the first byte first, from most-significant to least-significant.
func NewBitSource(bytes []byte) *BitSource {
	return &BitSource{bytes: bytes}
}

// ReadBits reads numBits bits and returns them as the least-significant bits of an int.
func (bs *BitSource) ReadBits(numBits int) (int, error) {
	if numBits < 1 || numBits > 32 || numBits > bs.Available() {
		return 0, &BitSourceError{NumBits: numBits, Available: bs.Available()}
	}

	result := 0
	for numBits > 0 {
		bitsLeft := 8 - bs.bitOffset
		toRead := min(numBits, bitsLeft)
		shift := bitsLeft - toRead
		mask := (0xFF >> uint(8-toRead)) << uint(shift)
		result = (result << uint(toRead)) | (int(bs.bytes[bs.byteOffset])&mask)>>uint(shift)
		numBits -= toRead
		bs.bitOffset += toRead
		if bs.bitOffset == 8 {
			bs.bitOffset = 0
			bs.byteOffset++
		}
	}
	return result, nil
}

// Available returns the number of bits that can still be read.
func (bs *BitSource) Available() int {
	return 8*(len(bs.bytes)-bs.byteOffset) - bs.bitOffset
}

// BitSourceError is returned when an invalid number of bits is requested.
type BitSourceError struct {
	NumBits   int
	Available int
}

func (e *BitSourceError) Error() string {
	return fmt.Sprintf("bitsource: cannot read %d bits, %d available", e.NumBits, e.Available)
}

// UnpackSymbols splits data into consecutive bitsPerSymbol-wide symbols,
// most-significant bit first. Trailing bits that do not fill a whole symbol
// are ignored.
//
// For widths below 8 the zero padding added by PackSymbols can hold a whole
// symbol and comes back as an extra zero. Use UnpackSymbolsN when the symbol
// count is known.
func UnpackSymbols(data []byte, bitsPerSymbol int) ([]int, error) {
	if err := checkSymbolWidth(bitsPerSymbol); err != nil {
		return nil, err
	}
	return readSymbols(data, bitsPerSymbol, 8*len(data)/bitsPerSymbol)
}

// UnpackSymbolsN reads exactly count symbols from data, which must be the
// PackSymbols encoding of count symbols.
func UnpackSymbolsN(data []byte, bitsPerSymbol, count int) ([]int, error) {
	if err := checkSymbolWidth(bitsPerSymbol); err != nil {
		return nil, err
	}
	if count < 0 || PackedLen(count, bitsPerSymbol) != len(data) {
		return nil, fmt.Errorf("bitutil: %d bytes do not pack %d symbols of %d bits", len(data), count, bitsPerSymbol)
	}
	return readSymbols(data, bitsPerSymbol, count)
}

// PackedLen returns the number of bytes PackSymbols produces for count
// symbols.
func PackedLen(count, bitsPerSymbol int) int {
	return (count*bitsPerSymbol + 7) / 8
}

// PackedSymbolCounts returns the range of symbol counts whose packing is
// numBytes long. lo == hi when the length is unambiguous and lo > hi when
// no count fits.
func PackedSymbolCounts(numBytes, bitsPerSymbol int) (lo, hi int) {
	if numBytes <= 0 {
		return 0, 0
	}
	return 8*(numBytes-1)/bitsPerSymbol + 1, 8 * numBytes / bitsPerSymbol
}

func checkSymbolWidth(bitsPerSymbol int) error {
	if bitsPerSymbol < 1 || bitsPerSymbol > 16 {
		return fmt.Errorf("bitutil: unsupported symbol width %d", bitsPerSymbol)
	}
	return nil
}

func readSymbols(data []byte, bitsPerSymbol, count int) ([]int, error) {
	bs := NewBitSource(data)
	symbols := make([]int, count)
	for i := range symbols {
		v, err := bs.ReadBits(bitsPerSymbol)
		if err != nil {
			return nil, err
		}
		symbols[i] = v
	}
	return symbols, nil
}
