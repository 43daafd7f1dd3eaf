// Package zxingrs holds the errors shared by the block-level error
// correction packages. The algebra lives in package reedsolomon.
package zxingrs

import "errors"

var (
	// ErrChecksum is returned when a block's Reed-Solomon check fails and the
	// block cannot be corrected.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when a block's geometry does not fit the field or
	// the requested error correction level.
	ErrFormat = errors.New("format error")
)
