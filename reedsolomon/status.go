package reedsolomon

import (
	"errors"
	"fmt"
)

// Status is the outcome of a Decode call.
type Status int

const (
	// StatusOK means the codeword had no errors or was corrected in place.
	StatusOK Status = iota
	// StatusAlgorithmFailed means the Euclidean algorithm reached a zero
	// remainder before the error locator was complete.
	StatusAlgorithmFailed
	// StatusSigmaTildeZero means the error locator evaluated to zero at the
	// origin and cannot be normalized.
	StatusSigmaTildeZero
	// StatusDegreeMismatch means the error locator has fewer roots in the
	// field than its degree.
	StatusDegreeMismatch
	// StatusBadLocation means an error location falls outside the codeword.
	StatusBadLocation
)

var (
	// ErrReedSolomon indicates a Reed-Solomon decoding failure.
	ErrReedSolomon = errors.New("reedsolomon: decoding error")

	// ErrUncorrectable is matched by every non-OK status error. The received
	// codeword has more errors than the code can correct, or an inconsistent
	// error pattern.
	ErrUncorrectable = fmt.Errorf("%w: uncorrectable codeword", ErrReedSolomon)

	// ErrAlgorithmFailed is the error for StatusAlgorithmFailed.
	ErrAlgorithmFailed = fmt.Errorf("%w: r_{i-1} was zero", ErrUncorrectable)

	// ErrSigmaTildeZero is the error for StatusSigmaTildeZero.
	ErrSigmaTildeZero = fmt.Errorf("%w: sigma tilde(0) was zero", ErrUncorrectable)

	// ErrDegreeMismatch is the error for StatusDegreeMismatch.
	ErrDegreeMismatch = fmt.Errorf("%w: error locator degree does not match number of roots", ErrUncorrectable)

	// ErrBadLocation is the error for StatusBadLocation.
	ErrBadLocation = fmt.Errorf("%w: bad error location", ErrUncorrectable)
)

var statusNames = [...]string{
	StatusOK:              "ok",
	StatusAlgorithmFailed: "algorithm failed",
	StatusSigmaTildeZero:  "sigma tilde zero",
	StatusDegreeMismatch:  "degree mismatch",
	StatusBadLocation:     "bad location",
}

// String returns a short human-readable name for s.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// OK reports whether s is StatusOK.
func (s Status) OK() bool { return s == StatusOK }

// Err returns nil for StatusOK and the matching sentinel error otherwise.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusAlgorithmFailed:
		return ErrAlgorithmFailed
	case StatusSigmaTildeZero:
		return ErrSigmaTildeZero
	case StatusDegreeMismatch:
		return ErrDegreeMismatch
	case StatusBadLocation:
		return ErrBadLocation
	}
	return fmt.Errorf("%w: %v", ErrReedSolomon, s)
}

// Fault is the panic value raised when field or polynomial machinery is
// internally inconsistent, or when a caller breaks an API contract. It is
// never the result of decoding bad input data and is deliberately not part
// of Status.
type Fault struct {
	Op  string
	Msg string
}

func (f *Fault) Error() string {
	return "reedsolomon: " + f.Op + ": " + f.Msg
}

func fault(op, msg string) {
	panic(&Fault{Op: op, Msg: msg})
}
