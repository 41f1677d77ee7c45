package hsiao

import (
	"github.com/nathanhack/eccfault/bitvec"
	"github.com/nathanhack/eccfault/ecc"
)

// Scheme implements ecc.Scheme for a Hsiao SEC-DED code built around a
// shared, already-materialized parity-check Matrix.
type Scheme struct {
	h *Matrix
}

// New returns a Hsiao scheme backed by h. h may be shared across multiple
// Scheme instances (e.g. one per worker) since it is read-only after
// construction.
func New(h *Matrix) Scheme {
	return Scheme{h: h}
}

func (s Scheme) DataWidth() int { return s.h.DataWidth() }
func (s Scheme) ECCWidth() int  { return s.h.ECCWidth() }

// Construct computes ecc[ri] = XOR over ci of H[ri][ci]·data[ci], which is
// exactly the systematic parity produced by H's [A | I_k] structure.
func (s Scheme) Construct(data bitvec.BitVector) bitvec.BitVector {
	d, k := s.DataWidth(), s.ECCWidth()
	if len(data) != d {
		panic("hsiao: data has wrong width")
	}

	eccBuf := bitvec.New(k)
	for ci := 0; ci < d; ci++ {
		if !data[ci] {
			continue
		}
		for _, ri := range s.h.byColumn.Row(ci).NonzeroArray() {
			eccBuf[ri] = !eccBuf[ri]
		}
	}
	return eccBuf
}

// CheckAndCorrect recomputes the syndrome from data, compares it against
// ecc, and — on an odd mismatch count — isolates the faulty bit by
// conjunction of mismatched rows (and negated conjunction of matched
// rows), per the Hsiao correction procedure.
func (s Scheme) CheckAndCorrect(data, eccBuf bitvec.BitVector) ecc.Detection {
	d, k := s.DataWidth(), s.ECCWidth()
	n := d + k
	if len(data) != d || len(eccBuf) != k {
		panic("hsiao: buffer has wrong width")
	}

	syndrome := make([]bool, k)
	for ri := 0; ri < k; ri++ {
		row := s.h.byRows.Row(ri)
		acc := false
		for _, ci := range row.NonzeroArray() {
			if ci < d && data[ci] {
				acc = !acc
			}
		}
		syndrome[ri] = acc
	}

	mismatch := make([]bool, k)
	mmcnt := 0
	for ri := 0; ri < k; ri++ {
		mismatch[ri] = eccBuf[ri] != syndrome[ri]
		if mismatch[ri] {
			mmcnt++
		}
	}

	if mmcnt == 0 {
		return ecc.OK
	}
	if mmcnt%2 == 0 {
		return ecc.UNCORRECTABLE
	}

	conjunction := make([]bool, n)
	for ci := range conjunction {
		conjunction[ci] = true
	}
	if mmcnt == 1 {
		for ci := 0; ci < d; ci++ {
			conjunction[ci] = false
		}
	}

	for ri := 0; ri < k; ri++ {
		row := s.h.byRows.Row(ri)
		if mismatch[ri] {
			for ci := 0; ci < n; ci++ {
				if conjunction[ci] && row.At(ci) == 0 {
					conjunction[ci] = false
				}
			}
		} else {
			for _, ci := range row.NonzeroArray() {
				conjunction[ci] = false
			}
		}
	}

	for ci := 0; ci < n; ci++ {
		if conjunction[ci] {
			if ci < d {
				data[ci] = !data[ci]
			} else {
				eccBuf[ci-d] = !eccBuf[ci-d]
			}
			return ecc.CORRECTED
		}
	}
	return ecc.UNCORRECTABLE
}
