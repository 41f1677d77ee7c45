package eval

import (
	"testing"

	"github.com/nathanhack/eccfault/ecc/hamming"
	"github.com/nathanhack/eccfault/unrank"
)

func TestWorkerFullRunSingleBitHammingAllCorrected(t *testing.T) {
	scheme := hamming.New()
	n := scheme.DataWidth() + scheme.ECCWidth()
	testCount := unrank.Count(n, 1)

	w := newWorker(0, 42, true, FailRandom, 1, 0, testCount, scheme, false)
	counters := w.run()

	if counters.Corrected != testCount {
		t.Fatalf("expected every single-bit fault corrected (%d), got %d corrected (ok=%d, uncorrectable=%d)",
			testCount, counters.Corrected, counters.OK, counters.Uncorrectable)
	}
	if counters.OK != 0 || counters.Uncorrectable != 0 || counters.FalseCorrections != 0 {
		t.Fatalf("unexpected non-corrected classifications: %+v", counters)
	}
}

func TestWorkerNoneModeLeavesDataUnflipped(t *testing.T) {
	scheme := hamming.New()
	n := scheme.DataWidth() + scheme.ECCWidth()

	w := newWorker(0, 7, false, FailNone, 0, 0, 1000, scheme, false)
	counters := w.run()

	if counters.OK != 1000 {
		t.Fatalf("expected all 1000 iterations classified OK with no injected faults, got ok=%d corrected=%d uncorrectable=%d",
			counters.OK, counters.Corrected, counters.Uncorrectable)
	}
	for i := 0; i < n; i++ {
		if counters.FlipOccurrences[i] != 0 {
			t.Fatalf("expected no flips at bit %d with FailNone, got %d", i, counters.FlipOccurrences[i])
		}
	}
}

func TestWorkerProgressReachesWorkSize(t *testing.T) {
	scheme := hamming.New()
	w := newWorker(0, 1, false, FailNone, 0, 0, 5, scheme, false)
	w.run()
	if got := w.progress.Load(); got != 5 {
		t.Fatalf("expected final progress == 5, got %d", got)
	}
}

func TestFaultPositionsWithinBounds(t *testing.T) {
	scheme := hamming.New()
	n := scheme.DataWidth() + scheme.ECCWidth()
	w := newWorker(0, 99, false, FailRandomBurst, 3, 0, 10, scheme, false)
	for iter := 0; iter < 10; iter++ {
		positions := w.faultPositions(uint64(iter))
		if len(positions) != 3 {
			t.Fatalf("expected 3 burst positions, got %d", len(positions))
		}
		for i, p := range positions {
			if p < 0 || p >= n {
				t.Fatalf("position %d out of [0,%d)", p, n)
			}
			if i > 0 && positions[i] != positions[i-1]+1 {
				t.Fatalf("burst positions not contiguous: %v", positions)
			}
		}
	}
}

