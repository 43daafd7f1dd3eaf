package bitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBitArrayAppendBits(t *testing.T) {
	ba := NewBitArray(0)
	ba.AppendBits(0x1, 1)
	ba.AppendBits(0x5, 3)
	ba.AppendBits(0xF0, 8)
	assert.Equal(t, 12, ba.Size())
	assert.Equal(t, 2, ba.SizeInBytes())
	assert.Equal(t, []byte{0xDF, 0x00}, ba.Bytes())
	assert.Equal(t, " XX.XXXXX ....", ba.String())
}

func TestBitArrayGrows(t *testing.T) {
	ba := NewBitArray(8)
	for i := 0; i < 100; i++ {
		ba.AppendBits(uint32(i&1), 1)
	}
	assert.Equal(t, 100, ba.Size())
	for i := 0; i < 100; i++ {
		assert.Equal(t, i&1 == 1, ba.Get(i), "bit %d", i)
	}
}

func TestBitSourceReadBits(t *testing.T) {
	bs := NewBitSource([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	assert.Equal(t, 40, bs.Available())

	v, err := bs.ReadBits(1)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	v, err = bs.ReadBits(6)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	v, err = bs.ReadBits(2)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	v, err = bs.ReadBits(15)
	require.NoError(t, err)
	assert.Equal(t, 0x203, v)
	assert.Equal(t, 16, bs.Available())

	_, err = bs.ReadBits(17)
	var bse *BitSourceError
	require.ErrorAs(t, err, &bse)
	assert.Equal(t, 17, bse.NumBits)
	assert.Equal(t, 16, bse.Available)
}

func TestUnpackSymbols(t *testing.T) {
	// 0xAB 0xCD 0xEF as 6-bit symbols: 101010 111100 110111 101111
	symbols, err := UnpackSymbols([]byte{0xAB, 0xCD, 0xEF}, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{0x2A, 0x3C, 0x37, 0x2F}, symbols)

	// Trailing bits that do not fill a symbol are dropped.
	symbols, err = UnpackSymbols([]byte{0xFF, 0xFF}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0x3FF}, symbols)

	_, err = UnpackSymbols([]byte{0xFF}, 0)
	assert.Error(t, err)
	_, err = UnpackSymbols([]byte{0xFF}, 17)
	assert.Error(t, err)
}

func TestUnpackSymbolsPadding(t *testing.T) {
	// Three 4-bit symbols pad to two bytes, which also hold four symbols.
	packed := PackSymbols([]int{0xA, 0xB, 0xC}, 4)
	assert.Equal(t, []byte{0xAB, 0xC0}, packed)

	symbols, err := UnpackSymbols(packed, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0xA, 0xB, 0xC, 0x0}, symbols)

	symbols, err = UnpackSymbolsN(packed, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0xA, 0xB, 0xC}, symbols)

	lo, hi := PackedSymbolCounts(len(packed), 4)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 4, hi)

	_, err = UnpackSymbolsN(packed, 4, 2)
	assert.Error(t, err)
	_, err = UnpackSymbolsN(packed, 4, 5)
	assert.Error(t, err)
	_, err = UnpackSymbolsN(packed, 0, 1)
	assert.Error(t, err)
}

func TestPackedSymbolCounts(t *testing.T) {
	tests := []struct {
		numBytes, width int
		lo, hi          int
	}{
		{6, 6, 7, 8},
		{3, 8, 3, 3},
		{3, 12, 2, 2},
		{2, 12, 1, 1},
		{1, 12, 1, 0},
		{0, 4, 0, 0},
	}
	for _, tt := range tests {
		lo, hi := PackedSymbolCounts(tt.numBytes, tt.width)
		assert.Equal(t, tt.lo, lo, "lo for %d bytes of %d-bit symbols", tt.numBytes, tt.width)
		assert.Equal(t, tt.hi, hi, "hi for %d bytes of %d-bit symbols", tt.numBytes, tt.width)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 16).Draw(t, "width")
		symbols := rapid.SliceOf(rapid.IntRange(0, 1<<width-1)).Draw(t, "symbols")

		packed := PackSymbols(symbols, width)
		assert.Len(t, packed, PackedLen(len(symbols), width))

		got, err := UnpackSymbolsN(packed, width, len(symbols))
		require.NoError(t, err)
		require.Len(t, got, len(symbols))

		if len(symbols) > 0 {
			assert.Equal(t, symbols, got)
			lo, hi := PackedSymbolCounts(len(packed), width)
			assert.GreaterOrEqual(t, len(symbols), lo)
			assert.LessOrEqual(t, len(symbols), hi)
		}
	})
}
