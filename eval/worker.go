package eval

import (
	"sync/atomic"

	"github.com/nathanhack/eccfault/bitvec"
	"github.com/nathanhack/eccfault/ecc"
	"github.com/nathanhack/eccfault/noise"
	"github.com/nathanhack/eccfault/unrank"

	"github.com/sirupsen/logrus"
)

// progressReportInterval is how many iterations elapse between updates to a
// worker's progress counter; the driver only needs eventual visibility, not
// per-iteration exactness, so this is coarse.
const progressReportInterval = 1 << 16

// worker runs one contiguous share of an enumeration (or, for a random run,
// that many PRNG-driven iterations) against a single ECC scheme instance.
// It owns its counters and bit buffers exclusively; nothing else touches
// them until the worker returns.
type worker struct {
	id         int
	seed       uint64
	fullRun    bool
	failMode   FailMode
	failCount  int
	workOffset uint64
	workMax    uint64
	debug      bool

	scheme  ecc.Scheme
	d, k, n int

	drawCounter uint64
	progress    *atomic.Int64
}

func newWorker(id int, seed uint64, fullRun bool, mode FailMode, failCount int, workOffset, workMax uint64, scheme ecc.Scheme, debug bool) *worker {
	d := scheme.DataWidth()
	k := scheme.ECCWidth()
	return &worker{
		id:         id,
		seed:       seed,
		fullRun:    fullRun,
		failMode:   mode,
		failCount:  failCount,
		workOffset: workOffset,
		workMax:    workMax,
		debug:      debug,
		scheme:     scheme,
		d:          d,
		k:          k,
		n:          d + k,
		progress:   new(atomic.Int64),
	}
}

// next draws a raw 64-bit value from the worker's keyed noise sequence,
// advancing the sequence by one position.
func (w *worker) next() uint64 {
	v := noise.Squirrel5U64(w.drawCounter, w.seed)
	w.drawCounter++
	return v
}

// nextBounded draws a value uniformly from [0, max) from the same sequence.
func (w *worker) nextBounded(max uint64) uint64 {
	v := noise.BoundedU64(w.drawCounter, w.seed, max)
	w.drawCounter++
	return v
}

// faultPositions returns the bit positions to flip for global iteration
// idx: enumerated deterministically on a full run, PRNG-drawn otherwise.
func (w *worker) faultPositions(idx uint64) []int {
	r := w.failCount
	switch w.failMode {
	case FailNone:
		return nil
	case FailRandom:
		if w.fullRun {
			return unrank.Subset(w.n, r, idx)
		}
		return w.drawUniqueSubset(r)
	case FailRandomBurst:
		if w.fullRun {
			return unrank.Burst(w.n, r, idx)
		}
		if r == 0 {
			return nil
		}
		start := int(w.nextBounded(uint64(w.n - r + 1)))
		positions := make([]int, r)
		for i := range positions {
			positions[i] = start + i
		}
		return positions
	default:
		panic(ecc.ErrInvariantViolation)
	}
}

// drawUniqueSubset draws r distinct bit positions from [0, n) by rejection:
// a repeated draw is discarded and redrawn, exactly as the "unique" retry
// loop in a random (non-exhaustive) RANDOM run.
func (w *worker) drawUniqueSubset(r int) []int {
	positions := make([]int, 0, r)
	seen := make(map[int]bool, r)
	for len(positions) < r {
		p := int(w.nextBounded(uint64(w.n)))
		if seen[p] {
			continue
		}
		seen[p] = true
		positions = append(positions, p)
	}
	return positions
}

// run executes this worker's full share of the enumeration and returns its
// accumulated Counters. data starts pseudo-random (keyed by the worker's
// seed) and then evolves: each iteration's corrected codeword is the next
// iteration's starting point, matching the per-iteration protocol's
// instruction to leave data mutated for the next reconstruction.
func (w *worker) run() Counters {
	counters := NewCounters(w.n)

	data := bitvec.New(w.d)
	for i := range data {
		data[i] = w.next()&1 == 1
	}

	total := w.workMax - w.workOffset
	for t := uint64(0); w.workOffset+t < w.workMax; t++ {
		idx := w.workOffset + t
		if t%progressReportInterval == 0 {
			w.progress.Store(int64(t))
		}

		eccBuf := w.scheme.Construct(data)
		dataOrig := data.Clone()
		eccOrig := eccBuf.Clone()

		positions := w.faultPositions(idx)

		dataFault := data.Clone()
		eccFault := eccBuf.Clone()
		for _, pos := range positions {
			if pos < w.d {
				dataFault[pos] = !dataFault[pos]
			} else {
				eccFault[pos-w.d] = !eccFault[pos-w.d]
			}
		}
		copy(data, dataFault)
		copy(eccBuf, eccFault)

		det := w.scheme.CheckAndCorrect(data, eccBuf)
		switch det {
		case ecc.OK:
			counters.OK++
		case ecc.CORRECTED:
			counters.Corrected++
			if !data.Equal(dataOrig) || !eccBuf.Equal(eccOrig) {
				counters.FalseCorrections++
			}
		case ecc.UNCORRECTABLE:
			counters.Uncorrectable++
		default:
			panic(ecc.ErrInvariantViolation)
		}

		for i := 0; i < w.d; i++ {
			if data[i] != dataFault[i] {
				accumulateFlip(counters, i, positions)
			}
		}
		for i := 0; i < w.k; i++ {
			if eccBuf[i] != eccFault[i] {
				accumulateFlip(counters, w.d+i, positions)
			}
		}

		if w.debug && total <= 10 {
			logrus.WithFields(logrus.Fields{"worker": w.id, "idx": idx, "faults": positions, "detection": det}).Debug("iteration")
		}
	}
	w.progress.Store(int64(total))
	return counters
}

func accumulateFlip(counters Counters, bitPos int, faultPositions []int) {
	counters.FlipOccurrences[bitPos]++
	for _, pos := range faultPositions {
		counters.FlipDistanceAccum[bitPos] += int64(bitPos) - int64(pos)
	}
}
