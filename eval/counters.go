package eval

// Counters accumulates the classification totals and per-bit flip
// statistics produced by one worker's share of a run, or (after Add) the
// aggregate across every worker.
type Counters struct {
	OK                uint64
	Corrected         uint64
	Uncorrectable     uint64
	FalseCorrections  uint64
	FlipOccurrences   []uint64 // length n, indexed by combined bit position
	FlipDistanceAccum []int64  // length n, signed distance accumulator
}

// NewCounters returns a zeroed Counters sized for an n-bit codeword.
func NewCounters(n int) Counters {
	return Counters{
		FlipOccurrences:   make([]uint64, n),
		FlipDistanceAccum: make([]int64, n),
	}
}

// Add accumulates other into c in place.
func (c *Counters) Add(other Counters) {
	c.OK += other.OK
	c.Corrected += other.Corrected
	c.Uncorrectable += other.Uncorrectable
	c.FalseCorrections += other.FalseCorrections
	for i := range c.FlipOccurrences {
		c.FlipOccurrences[i] += other.FlipOccurrences[i]
		c.FlipDistanceAccum[i] += other.FlipDistanceAccum[i]
	}
}

// NormalizedFlipDistances returns FlipDistanceAccum divided by
// (failCount * FalseCorrections), the average signed distance from an
// injected fault to a resulting flip. When FalseCorrections is zero no
// division is done and the accumulator is returned unnormalized.
func (c Counters) NormalizedFlipDistances(failCount int) []int64 {
	out := make([]int64, len(c.FlipDistanceAccum))
	copy(out, c.FlipDistanceAccum)
	if c.FalseCorrections == 0 {
		return out
	}
	denom := int64(failCount) * int64(c.FalseCorrections)
	for i := range out {
		out[i] /= denom
	}
	return out
}
