package hamming

import (
	"math/rand"
	"testing"

	"github.com/nathanhack/eccfault/bitvec"
	"github.com/nathanhack/eccfault/ecc"
)

func randomData(r *rand.Rand) bitvec.BitVector {
	d := bitvec.New(dataWidth)
	for i := range d {
		d[i] = r.Intn(2) == 1
	}
	return d
}

func TestConstructCheckAndCorrectRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	s := New()
	for trial := 0; trial < 200; trial++ {
		data := randomData(r)
		e := s.Construct(data)
		if len(e) != eccWidth {
			t.Fatalf("expected ecc width %d, got %d", eccWidth, len(e))
		}
		if d := s.CheckAndCorrect(data.Clone(), e.Clone()); d != ecc.OK {
			t.Fatalf("trial %d: expected OK on untouched codeword, got %v", trial, d)
		}
	}
}

func TestSingleBitErrorsAreCorrected(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	s := New()
	n := dataWidth + eccWidth
	for trial := 0; trial < 50; trial++ {
		data := randomData(r)
		e := s.Construct(data)

		for i := 0; i < n; i++ {
			faultData := data.Clone()
			faultECC := e.Clone()
			if i < dataWidth {
				faultData[i] = !faultData[i]
			} else {
				faultECC[i-dataWidth] = !faultECC[i-dataWidth]
			}

			d := s.CheckAndCorrect(faultData, faultECC)
			if d != ecc.CORRECTED {
				t.Fatalf("trial %d bit %d: expected CORRECTED, got %v", trial, i, d)
			}
			if !faultData.Equal(data) || !faultECC.Equal(e) {
				t.Fatalf("trial %d bit %d: correction did not restore the original codeword", trial, i)
			}
		}
	}
}

func TestDoubleBitErrorsAreDetectedUncorrectable(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	s := New()
	n := dataWidth + eccWidth

	for trial := 0; trial < 50; trial++ {
		data := randomData(r)
		e := s.Construct(data)

		i, j := r.Intn(n), r.Intn(n)
		for j == i {
			j = r.Intn(n)
		}

		faultData := data.Clone()
		faultECC := e.Clone()
		flip := func(pos int) {
			if pos < dataWidth {
				faultData[pos] = !faultData[pos]
			} else {
				faultECC[pos-dataWidth] = !faultECC[pos-dataWidth]
			}
		}
		flip(i)
		flip(j)

		if d := s.CheckAndCorrect(faultData, faultECC); d != ecc.UNCORRECTABLE {
			t.Fatalf("trial %d (%d,%d): expected UNCORRECTABLE, got %v", trial, i, j, d)
		}
	}
}

func TestOverallParityBitErrorIsCorrected(t *testing.T) {
	s := New()
	data := bitvec.New(dataWidth)
	e := s.Construct(data)
	e[7] = !e[7]

	if d := s.CheckAndCorrect(data, e); d != ecc.CORRECTED {
		t.Fatalf("expected CORRECTED for overall-parity-only error, got %v", d)
	}
	if e[7] {
		t.Fatalf("expected overall parity bit restored to false")
	}
}
