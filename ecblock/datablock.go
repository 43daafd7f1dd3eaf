// Package ecblock splits interleaved symbol codewords into Reed-Solomon
// blocks and corrects each block.
package ecblock

import (
	"fmt"

	"github.com/ericlevine/zxingrs"
)

// ECB describes Count blocks that each carry DataCodewords data codewords.
type ECB struct {
	Count         int
	DataCodewords int
}

// ECBlocks describes the block structure of one symbol: every block carries
// ECCodewordsPerBlock check codewords, and groups later in Blocks may carry
// one more data codeword than earlier ones.
type ECBlocks struct {
	ECCodewordsPerBlock int
	Blocks              []ECB
}

// NumBlocks returns the total number of blocks.
func (e ECBlocks) NumBlocks() int {
	total := 0
	for _, b := range e.Blocks {
		total += b.Count
	}
	return total
}

// TotalCodewords returns the number of data plus check codewords.
func (e ECBlocks) TotalCodewords() int {
	total := 0
	for _, b := range e.Blocks {
		total += b.Count * (b.DataCodewords + e.ECCodewordsPerBlock)
	}
	return total
}

func (e ECBlocks) validate() error {
	if e.ECCodewordsPerBlock <= 0 || len(e.Blocks) == 0 {
		return fmt.Errorf("%w: empty block structure", zxingrs.ErrFormat)
	}
	shortest, prev := e.Blocks[0].DataCodewords, e.Blocks[0].DataCodewords
	for _, b := range e.Blocks {
		if b.Count <= 0 || b.DataCodewords <= 0 {
			return fmt.Errorf("%w: invalid block group %+v", zxingrs.ErrFormat, b)
		}
		// Longer blocks follow shorter ones and carry exactly one extra.
		if b.DataCodewords < prev || b.DataCodewords > shortest+1 {
			return fmt.Errorf("%w: block groups out of order or uneven", zxingrs.ErrFormat)
		}
		prev = b.DataCodewords
	}
	return nil
}

// DataBlock represents a block of data and error-correction codewords.
type DataBlock struct {
	NumDataCodewords int
	Codewords        []byte
}

// GetDataBlocks separates interleaved codewords into their original blocks.
// Data codewords are interleaved first, then the extra data codeword of the
// longer blocks, then the check codewords.
func GetDataBlocks(rawCodewords []byte, ecBlocks ECBlocks) ([]DataBlock, error) {
	if err := ecBlocks.validate(); err != nil {
		return nil, err
	}
	if len(rawCodewords) != ecBlocks.TotalCodewords() {
		return nil, fmt.Errorf("%w: got %d codewords, want %d",
			zxingrs.ErrFormat, len(rawCodewords), ecBlocks.TotalCodewords())
	}

	result := make([]DataBlock, 0, ecBlocks.NumBlocks())
	for _, block := range ecBlocks.Blocks {
		for i := 0; i < block.Count; i++ {
			result = append(result, DataBlock{
				NumDataCodewords: block.DataCodewords,
				Codewords:        make([]byte, block.DataCodewords+ecBlocks.ECCodewordsPerBlock),
			})
		}
	}
	numResultBlocks := len(result)

	// Find where longer blocks start
	shorterBlocksTotalCodewords := len(result[0].Codewords)
	longerBlocksStartAt := numResultBlocks - 1
	for longerBlocksStartAt >= 0 {
		if len(result[longerBlocksStartAt].Codewords) == shorterBlocksTotalCodewords {
			break
		}
		longerBlocksStartAt--
	}
	longerBlocksStartAt++

	shorterBlocksNumDataCodewords := shorterBlocksTotalCodewords - ecBlocks.ECCodewordsPerBlock

	rawCodewordsOffset := 0
	for i := 0; i < shorterBlocksNumDataCodewords; i++ {
		for j := 0; j < numResultBlocks; j++ {
			result[j].Codewords[i] = rawCodewords[rawCodewordsOffset]
			rawCodewordsOffset++
		}
	}
	for j := longerBlocksStartAt; j < numResultBlocks; j++ {
		result[j].Codewords[shorterBlocksNumDataCodewords] = rawCodewords[rawCodewordsOffset]
		rawCodewordsOffset++
	}
	for i := shorterBlocksNumDataCodewords; i < shorterBlocksTotalCodewords; i++ {
		for j := 0; j < numResultBlocks; j++ {
			iOffset := i
			if j >= longerBlocksStartAt {
				iOffset = i + 1
			}
			result[j].Codewords[iOffset] = rawCodewords[rawCodewordsOffset]
			rawCodewordsOffset++
		}
	}

	return result, nil
}

// Interleave is the inverse of GetDataBlocks.
func Interleave(blocks []DataBlock) []byte {
	if len(blocks) == 0 {
		return nil
	}
	total, maxData := 0, 0
	for _, b := range blocks {
		total += len(b.Codewords)
		maxData = max(maxData, b.NumDataCodewords)
	}
	numEC := len(blocks[0].Codewords) - blocks[0].NumDataCodewords

	out := make([]byte, 0, total)
	for i := 0; i < maxData; i++ {
		for _, b := range blocks {
			if i < b.NumDataCodewords {
				out = append(out, b.Codewords[i])
			}
		}
	}
	for i := 0; i < numEC; i++ {
		for _, b := range blocks {
			out = append(out, b.Codewords[b.NumDataCodewords+i])
		}
	}
	return out
}

// Data concatenates the data codewords of blocks in order.
func Data(blocks []DataBlock) []byte {
	total := 0
	for _, b := range blocks {
		total += b.NumDataCodewords
	}
	out := make([]byte, 0, total)
	for _, b := range blocks {
		out = append(out, b.Codewords[:b.NumDataCodewords]...)
	}
	return out
}
