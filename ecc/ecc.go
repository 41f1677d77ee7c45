// Package ecc defines the uniform contract shared by every error-correcting
// code implementation in this tree (Hamming, Hsiao, BCH).
package ecc

import (
	"errors"

	"github.com/nathanhack/eccfault/bitvec"
)

// ErrInvariantViolation is the panic value used when an internal invariant
// is broken, e.g. a codec reporting an error it cannot produce once
// constructed, or an undefined fail mode or detection value. Wrong-width
// buffers passed to a Scheme panic with their own codec-specific message.
var ErrInvariantViolation = errors.New("ecc: invariant violation")

// Detection is the outcome of CheckAndCorrect.
type Detection int

const (
	// OK means no mismatch was detected; the buffers are unchanged.
	OK Detection = iota
	// CORRECTED means a mismatch was detected and a unique correction was
	// applied. This does not guarantee the correction restored the
	// original codeword: a miscorrection is still CORRECTED.
	CORRECTED
	// UNCORRECTABLE means no candidate correction within the scheme's
	// capability fits the observed syndrome.
	UNCORRECTABLE
)

func (d Detection) String() string {
	switch d {
	case OK:
		return "OK"
	case CORRECTED:
		return "CORRECTED"
	case UNCORRECTABLE:
		return "UNCORRECTABLE"
	default:
		return "UNKNOWN"
	}
}

// Scheme is the uniform interface implemented by every codec in this tree.
// A Scheme is immutable after construction: DataWidth and ECCWidth never
// change, and Construct/CheckAndCorrect carry no hidden state between
// calls other than what is read-only and shared (e.g. a Hsiao parity-check
// matrix).
type Scheme interface {
	// DataWidth returns d, the fixed data word width in bits.
	DataWidth() int
	// ECCWidth returns k, the fixed ecc width in bits.
	ECCWidth() int
	// Construct computes a fresh ecc of length ECCWidth() for data, which
	// must have length DataWidth(). It panics if data has the wrong
	// length: that is a programmer error, not a runtime condition.
	Construct(data bitvec.BitVector) (ecc bitvec.BitVector)
	// CheckAndCorrect detects and, where possible, corrects errors in
	// (data, ecc), both of which must already have their fixed widths. It
	// mutates both buffers in place to the corrected codeword when the
	// result is not UNCORRECTABLE; on UNCORRECTABLE, buffer contents are
	// unspecified. It panics if data or ecc has the wrong length.
	CheckAndCorrect(data, ecc bitvec.BitVector) Detection
}
