// Package hsiao implements the Hsiao SEC-DED code: a generated,
// odd-column-weight parity-check matrix H = [A | I_k] and syndrome-based
// encode/decode with conjunction-of-mismatched-rows correction.
package hsiao

import (
	mat "github.com/nathanhack/sparsemat"

	"github.com/nathanhack/eccfault/ecc/hsiao/internal"
)

// Matrix holds two representations of the same k×n Hsiao parity-check
// matrix H: a row-major form (fast row access, used for correction) and a
// column-major form (H transposed, fast per-data-column access, used for
// encode). Both are immutable once built and may be shared across
// concurrently-running Scheme instances.
type Matrix struct {
	k, n     int
	byRows   mat.SparseMat // k x n
	byColumn mat.SparseMat // n x k, i.e. H^T
}

// Build constructs the Hsiao parity-check matrix for a code with data
// width d and parity width k: H is k×n (n = d+k), its last k columns form
// I_k, and every column has odd Hamming weight and is pairwise distinct
// from every other column.
func Build(d, k int) *Matrix {
	n := d + k

	maxWeight := 1
	total := internal.Binomial(k, 1)
	prevTotal := total
	for n > total {
		maxWeight += 2
		prevTotal = total
		total += internal.Binomial(k, maxWeight)
	}
	maxWeightColumns := n - prevTotal

	type part struct {
		m    mat.SparseMat
		cols int
	}
	var parts []part
	for weight := 3; weight < maxWeight; weight += 2 {
		cols := internal.Binomial(k, weight)
		parts = append(parts, part{internal.Delta(k, cols, weight), cols})
	}
	parts = append(parts, part{internal.Delta(k, maxWeightColumns, maxWeight), maxWeightColumns})
	parts = append(parts, part{mat.CSRIdentity(k), k})

	H := mat.CSRMat(k, n)
	offset := 0
	for _, p := range parts {
		H.SetMatrix(p.m, 0, offset)
		offset += p.cols
	}

	return &Matrix{
		k:        k,
		n:        n,
		byRows:   H,
		byColumn: H.T(),
	}
}

// DataWidth returns d = n - k.
func (m *Matrix) DataWidth() int { return m.n - m.k }

// ECCWidth returns k.
func (m *Matrix) ECCWidth() int { return m.k }

// MinECCWidth returns the smallest parity width k for which a Hsiao matrix
// covering a d-bit data word exists: the smallest k such that the odd-weight
// columns of length k (2^(k-1) of them) number at least n = d+k, i.e.
// 2^(k-1) - k >= d. With a k smaller than this, Build's column-accumulation
// loop never reaches width n and Build does not return.
func MinECCWidth(d int) int {
	for k := 1; ; k++ {
		if (1<<(k-1))-k >= d {
			return k
		}
	}
}
