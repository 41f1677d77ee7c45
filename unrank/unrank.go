// Package unrank maps a linear index to the corresponding r-subset (or
// r-burst) of {0, ..., n-1}, giving each parallel worker a way to compute
// its own slice of an exhaustive fault enumeration without coordination.
package unrank

import "gonum.org/v1/gonum/stat/combin"

// binomial returns C(n, r), clamping negative inputs to the conventional 0.
func binomial(n, r int) uint64 {
	if r < 0 || n < 0 || r > n {
		return 0
	}
	return uint64(combin.Binomial(n, r))
}

// Count returns C(n, r), the number of r-subsets unrank by Subset.
func Count(n, r int) uint64 {
	return binomial(n, r)
}

// Subset returns the idx-th r-subset of {0, ..., n-1} in lexicographic
// order, as a strictly ascending slice of r indices. idx must be in
// [0, Count(n, r)); an out-of-range idx is a programmer error and panics.
func Subset(n, r int, idx uint64) []int {
	if r == 0 {
		if idx != 0 {
			panic("unrank.Subset: idx out of range for r == 0")
		}
		return nil
	}
	if idx >= binomial(n, r) {
		panic("unrank.Subset: idx out of range")
	}

	out := make([]int, 0, r)
	nRemaining := n
	rRemaining := r
	e := idx
	for rRemaining > 1 {
		block := binomial(nRemaining-1, rRemaining-1)
		if e < block {
			out = append(out, n-nRemaining)
			rRemaining--
		} else {
			e -= block
		}
		nRemaining--
	}
	out = append(out, (n-nRemaining)+int(e))
	return out
}

// Burst returns (idx, idx+1, ..., idx+r-1), the idx-th contiguous length-r
// run within {0, ..., n-1}. idx must be in [0, n-r+1); an out-of-range idx
// is a programmer error and panics.
func Burst(n, r int, idx uint64) []int {
	if r == 0 {
		if idx != 0 {
			panic("unrank.Burst: idx out of range for r == 0")
		}
		return nil
	}
	if int(idx) >= n-r+1 || idx < 0 {
		panic("unrank.Burst: idx out of range")
	}

	out := make([]int, r)
	for i := 0; i < r; i++ {
		out[i] = int(idx) + i
	}
	return out
}
