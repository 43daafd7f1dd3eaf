package ecblock

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ericlevine/zxingrs"
	"github.com/ericlevine/zxingrs/reedsolomon"
)

// maxByteFieldSize bounds fields whose symbols fit in a byte.
const maxByteFieldSize = 256

// CorrectErrors uses Reed-Solomon error correction to fix errors in a block
// and returns the number of corrected codewords. On failure the block is left
// unmodified and the error wraps zxingrs.ErrChecksum and the decoder's status
// error.
func CorrectErrors(dec *reedsolomon.Decoder, block *DataBlock) (int, error) {
	return correctErrors(dec, block, nil)
}

func correctErrors(dec *reedsolomon.Decoder, block *DataBlock, buf *[]int) (int, error) {
	if dec.Field().Size() > maxByteFieldSize {
		return 0, fmt.Errorf("%w: %v symbols do not fit in bytes", zxingrs.ErrFormat, dec.Field())
	}
	numCodewords := len(block.Codewords)
	numECCodewords := numCodewords - block.NumDataCodewords
	if block.NumDataCodewords <= 0 || numECCodewords <= 0 {
		return 0, fmt.Errorf("%w: block has %d data of %d codewords",
			zxingrs.ErrFormat, block.NumDataCodewords, numCodewords)
	}

	var codewordsInts []int
	if buf != nil && cap(*buf) >= numCodewords {
		codewordsInts = (*buf)[:numCodewords]
	} else {
		codewordsInts = make([]int, numCodewords)
		if buf != nil {
			*buf = codewordsInts
		}
	}
	for i, c := range block.Codewords {
		codewordsInts[i] = int(c)
	}

	errorsCorrected, status := dec.Decode(codewordsInts, numECCodewords)
	if status != reedsolomon.StatusOK {
		return 0, fmt.Errorf("%w: %w", zxingrs.ErrChecksum, status.Err())
	}

	for i, c := range codewordsInts {
		block.Codewords[i] = byte(c)
	}
	return errorsCorrected, nil
}

// CorrectAll corrects every block over field using up to workers goroutines,
// each with its own Decoder. It returns the total number of corrected
// codewords, or the first error encountered. workers <= 0 means one worker
// per block.
func CorrectAll(ctx context.Context, field *reedsolomon.GenericGF, blocks []DataBlock, workers int) (int, error) {
	if workers <= 0 || workers > len(blocks) {
		workers = len(blocks)
	}
	if workers == 0 {
		return 0, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	corrected := make([]int, workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			dec := reedsolomon.NewDecoder(field)
			var buf []int
			for i := w; i < len(blocks); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				n, err := correctErrors(dec, &blocks[i], &buf)
				if err != nil {
					return fmt.Errorf("block %d: %w", i, err)
				}
				corrected[w] += n
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, n := range corrected {
		total += n
	}
	return total, nil
}
