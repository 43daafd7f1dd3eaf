package ecblock

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ericlevine/zxingrs"
	"github.com/ericlevine/zxingrs/reedsolomon"
)

// qr5Q is the block structure of a version 5 QR Code at level Q.
var qr5Q = ECBlocks{
	ECCodewordsPerBlock: 18,
	Blocks:              []ECB{{Count: 2, DataCodewords: 15}, {Count: 2, DataCodewords: 16}},
}

// encodeBlocks builds error-corrected blocks for data laid out per ecBlocks.
func encodeBlocks(t testing.TB, field *reedsolomon.GenericGF, ecBlocks ECBlocks, data []byte) []DataBlock {
	t.Helper()
	enc := reedsolomon.NewEncoder(field)
	var blocks []DataBlock
	offset := 0
	for _, group := range ecBlocks.Blocks {
		for i := 0; i < group.Count; i++ {
			ints := make([]int, group.DataCodewords+ecBlocks.ECCodewordsPerBlock)
			for k := 0; k < group.DataCodewords; k++ {
				ints[k] = int(data[offset+k])
			}
			offset += group.DataCodewords
			enc.Encode(ints, ecBlocks.ECCodewordsPerBlock)
			codewords := make([]byte, len(ints))
			for k, v := range ints {
				codewords[k] = byte(v)
			}
			blocks = append(blocks, DataBlock{NumDataCodewords: group.DataCodewords, Codewords: codewords})
		}
	}
	require.Equal(t, len(data), offset)
	return blocks
}

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	return data
}

func TestGetDataBlocksQR5Q(t *testing.T) {
	assert.Equal(t, 4, qr5Q.NumBlocks())
	assert.Equal(t, 134, qr5Q.TotalCodewords())

	data := testData(62)
	blocks := encodeBlocks(t, reedsolomon.QRCodeField256, qr5Q, data)
	raw := Interleave(blocks)
	require.Len(t, raw, 134)

	// The first codewords are the first data codeword of each block.
	assert.Equal(t, []byte{data[0], data[15], data[30], data[46]}, raw[:4])

	got, err := GetDataBlocks(raw, qr5Q)
	require.NoError(t, err)
	assert.Equal(t, blocks, got)
	assert.Equal(t, data, Data(got))
}

func TestGetDataBlocksInvalid(t *testing.T) {
	_, err := GetDataBlocks(make([]byte, 10), qr5Q)
	assert.ErrorIs(t, err, zxingrs.ErrFormat)

	bad := []ECBlocks{
		{},
		{ECCodewordsPerBlock: 4},
		{ECCodewordsPerBlock: 4, Blocks: []ECB{{Count: 0, DataCodewords: 3}}},
		{ECCodewordsPerBlock: 4, Blocks: []ECB{{Count: 1, DataCodewords: 4}, {Count: 1, DataCodewords: 3}}},
		{ECCodewordsPerBlock: 4, Blocks: []ECB{{Count: 1, DataCodewords: 3}, {Count: 1, DataCodewords: 5}}},
	}
	for _, e := range bad {
		_, err := GetDataBlocks(make([]byte, e.TotalCodewords()), e)
		assert.ErrorIs(t, err, zxingrs.ErrFormat, "%+v", e)
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ecBlocks := ECBlocks{ECCodewordsPerBlock: rapid.IntRange(1, 10).Draw(t, "ec")}
		short := rapid.IntRange(1, 20).Draw(t, "short")
		ecBlocks.Blocks = append(ecBlocks.Blocks, ECB{Count: rapid.IntRange(1, 4).Draw(t, "shortCount"), DataCodewords: short})
		if longCount := rapid.IntRange(0, 4).Draw(t, "longCount"); longCount > 0 {
			ecBlocks.Blocks = append(ecBlocks.Blocks, ECB{Count: longCount, DataCodewords: short + 1})
		}
		raw := rapid.SliceOfN(rapid.Byte(), ecBlocks.TotalCodewords(), ecBlocks.TotalCodewords()).Draw(t, "raw")

		blocks, err := GetDataBlocks(raw, ecBlocks)
		require.NoError(t, err)
		assert.Len(t, blocks, ecBlocks.NumBlocks())
		assert.Equal(t, raw, Interleave(blocks))
	})
}

func TestCorrectErrors(t *testing.T) {
	field := reedsolomon.DataMatrixField256
	ecBlocks := ECBlocks{ECCodewordsPerBlock: 10, Blocks: []ECB{{Count: 1, DataCodewords: 12}}}
	blocks := encodeBlocks(t, field, ecBlocks, testData(12))
	want := slices.Clone(blocks[0].Codewords)

	block := DataBlock{NumDataCodewords: 12, Codewords: slices.Clone(want)}
	for i := 0; i < 5; i++ {
		block.Codewords[i*4] ^= 0xA5
	}
	n, err := CorrectErrors(reedsolomon.NewDecoder(field), &block)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, want, block.Codewords)

	for i := 0; i < 6; i++ {
		block.Codewords[i*3] ^= 0x5A
	}
	before := slices.Clone(block.Codewords)
	_, err = CorrectErrors(reedsolomon.NewDecoder(field), &block)
	if err != nil {
		assert.ErrorIs(t, err, zxingrs.ErrChecksum)
		assert.ErrorIs(t, err, reedsolomon.ErrUncorrectable)
		assert.Equal(t, before, block.Codewords)
	}
}

func TestCorrectErrorsFormat(t *testing.T) {
	_, err := CorrectErrors(reedsolomon.NewDecoder(reedsolomon.AztecData10), &DataBlock{NumDataCodewords: 2, Codewords: make([]byte, 4)})
	assert.ErrorIs(t, err, zxingrs.ErrFormat)

	dec := reedsolomon.NewDecoder(reedsolomon.QRCodeField256)
	_, err = CorrectErrors(dec, &DataBlock{NumDataCodewords: 4, Codewords: make([]byte, 4)})
	assert.ErrorIs(t, err, zxingrs.ErrFormat)
	_, err = CorrectErrors(dec, &DataBlock{NumDataCodewords: 0, Codewords: make([]byte, 4)})
	assert.ErrorIs(t, err, zxingrs.ErrFormat)
}

func TestCorrectAll(t *testing.T) {
	field := reedsolomon.QRCodeField256
	data := testData(62)
	raw := Interleave(encodeBlocks(t, field, qr5Q, data))

	// Interleaving spreads a burst over all blocks: 32 consecutive damaged
	// codewords put 8 errors in each block, within the 9 each can correct.
	for i := 40; i < 72; i++ {
		raw[i] ^= 0xFF
	}

	for _, workers := range []int{0, 1, 2, 4, 16} {
		blocks, err := GetDataBlocks(slices.Clone(raw), qr5Q)
		require.NoError(t, err)
		n, err := CorrectAll(context.Background(), field, blocks, workers)
		require.NoError(t, err, "workers %d", workers)
		assert.Equal(t, 32, n)
		assert.Equal(t, data, Data(blocks))
	}
}

func TestCorrectAllFailure(t *testing.T) {
	field := reedsolomon.QRCodeField256
	blocks := encodeBlocks(t, field, qr5Q, testData(62))
	for i := 0; i < 33; i++ {
		blocks[2].Codewords[i] = 0
	}
	for i := 0; i < 16; i++ {
		blocks[2].Codewords[i] ^= byte(i + 1)
	}
	damaged := slices.Clone(blocks[2].Codewords)

	_, err := CorrectAll(context.Background(), field, blocks, 2)
	if err != nil {
		assert.ErrorIs(t, err, zxingrs.ErrChecksum)
		assert.Contains(t, err.Error(), "block 2")
		assert.Equal(t, damaged, blocks[2].Codewords)
	}
}

func TestCorrectAllCancelled(t *testing.T) {
	field := reedsolomon.QRCodeField256
	blocks := encodeBlocks(t, field, qr5Q, testData(62))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CorrectAll(ctx, field, blocks, 1)
	assert.ErrorIs(t, err, context.Canceled)

	n, err := CorrectAll(context.Background(), field, nil, 4)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
