// Package hamming implements the fixed Hamming(72,64) SEC-DED code: 64 data
// bits, 7 classic Hamming parity bits plus one overall parity bit.
package hamming

import (
	"math/bits"

	"github.com/nathanhack/eccfault/bitvec"
	"github.com/nathanhack/eccfault/ecc"
)

const (
	dataWidth = 64
	eccWidth  = 8
)

// Scheme implements ecc.Scheme for the fixed Hamming(72,64) SEC-DED code.
type Scheme struct{}

// New returns the Hamming(72,64) SEC-DED scheme.
func New() Scheme {
	return Scheme{}
}

func (Scheme) DataWidth() int { return dataWidth }
func (Scheme) ECCWidth() int  { return eccWidth }

// computeE XORs the logical position p = i+1+skips of every set data bit,
// skipping positions that are themselves powers of two (parity positions).
func computeE(data bitvec.BitVector) uint32 {
	var e uint32
	dataIdx := 0
	p := uint32(1)
	for dataIdx < dataWidth {
		if p&(p-1) != 0 { // p is not a power of two
			if data[dataIdx] {
				e ^= p
			}
			dataIdx++
		}
		p++
	}
	return e
}

// Construct builds the 8-bit ecc: the low 7 bits of E (the XOR of the
// logical positions of every set data bit), plus an overall parity bit.
func (s Scheme) Construct(data bitvec.BitVector) bitvec.BitVector {
	if len(data) != dataWidth {
		panic("hamming: data has wrong width")
	}

	e := computeE(data)

	ecc := bitvec.New(eccWidth)
	totalParity := false
	for i := 0; i < 7; i++ {
		bit := e&(1<<uint(i)) != 0
		ecc[i] = bit
		if bit {
			totalParity = !totalParity
		}
	}
	for _, b := range data {
		if b {
			totalParity = !totalParity
		}
	}
	ecc[7] = totalParity
	return ecc
}

// CheckAndCorrect detects and corrects a single-bit error, or detects (but
// cannot correct) a double-bit error, per the classic Hamming SEC-DED
// classification table.
func (s Scheme) CheckAndCorrect(data, eccBuf bitvec.BitVector) ecc.Detection {
	if len(data) != dataWidth || len(eccBuf) != eccWidth {
		panic("hamming: buffer has wrong width")
	}

	checkECC := s.Construct(data)

	var syndrome uint32
	for i := 0; i < 7; i++ {
		if eccBuf[i] != checkECC[i] {
			syndrome |= 1 << uint(i)
		}
	}

	totalParity := false
	for _, b := range data {
		if b {
			totalParity = !totalParity
		}
	}
	for i := 0; i < 7; i++ {
		if eccBuf[i] {
			totalParity = !totalParity
		}
	}

	switch {
	case syndrome == 0 && totalParity == eccBuf[7]:
		return ecc.OK
	case syndrome == 0 && totalParity != eccBuf[7]:
		eccBuf[7] = !eccBuf[7]
		return ecc.CORRECTED
	case syndrome != 0 && totalParity == eccBuf[7]:
		return ecc.UNCORRECTABLE
	default: // syndrome != 0 && totalParity != eccBuf[7]
		if syndrome&(syndrome-1) == 0 {
			// syndrome is a power of two: faulty bit is the parity bit at
			// log2(syndrome).
			eccBuf[bits.TrailingZeros32(syndrome)] = !eccBuf[bits.TrailingZeros32(syndrome)]
		} else {
			dataIdx := int(syndrome) - 1 - popcountParityPositionsBelow(syndrome)
			data[dataIdx] = !data[dataIdx]
		}
		return ecc.CORRECTED
	}
}

// popcountParityPositionsBelow counts how many powers of two are strictly
// less than s, i.e. the number of parity positions skipped before logical
// position s.
func popcountParityPositionsBelow(s uint32) int {
	count := 0
	for p := uint32(1); p < s; p++ {
		if p&(p-1) == 0 {
			count++
		}
	}
	return count
}
