// Package internal implements a from-scratch binary BCH primitive: GF(2^m)
// field arithmetic, generator-polynomial construction via cyclotomic
// cosets, bit-serial LFSR encoding, and Berlekamp-Massey/Chien-search
// decoding. It is never imported outside the ecc/bch adapter.
package internal

import "errors"

// ErrInvalidParams is returned when (m, t) cannot form a valid binary BCH
// code (e.g. t too large for the resulting block length).
var ErrInvalidParams = errors.New("bch: invalid parameters")

// ErrUncorrectable is returned by Decode when the syndromes do not
// correspond to a correctable error pattern within the code's capability.
var ErrUncorrectable = errors.New("bch: uncorrectable")

// Field is a GF(2^m) field built from a primitive polynomial, represented
// by log/antilog tables over the nonzero elements {1, ..., 2^m-1} plus the
// additive identity 0.
type Field struct {
	M     int
	Size  int // 2^m
	alpha []int // antilog: alpha[i] = value of x^i, for i in [0, 2^m-1)
	log   []int // log[v] = i such that alpha[i] == v, for v in [1, 2^m)
}

// NewField builds GF(2^m) by brute-force search for a primitive polynomial
// of degree m: the smallest candidate (1<<m)|c, c odd, whose multiplicative
// order under the LFSR recurrence it defines equals 2^m-1.
func NewField(m int) *Field {
	if m < 2 {
		panic("bch: field degree must be >= 2")
	}
	size := 1 << m
	poly := findPrimitivePolynomial(m)

	f := &Field{
		M:     m,
		Size:  size,
		alpha: make([]int, size-1),
		log:   make([]int, size),
	}

	reg := 1
	for i := 0; i < size-1; i++ {
		f.alpha[i] = reg
		f.log[reg] = i
		reg <<= 1
		if reg&size != 0 {
			reg ^= poly
		}
	}
	return f
}

// findPrimitivePolynomial returns the lowest-valued degree-m polynomial
// (1<<m)|c, c odd, whose multiplicative order is 2^m-1 (i.e. x generates
// every nonzero field element before returning to 1).
func findPrimitivePolynomial(m int) int {
	size := 1 << m
	order := size - 1
	for c := 1; c < size; c += 2 {
		poly := size | c
		if lfsrOrder(poly, m) == order {
			return poly
		}
	}
	panic("bch: no primitive polynomial found for this degree")
}

// lfsrOrder returns the number of distinct nonzero states visited by the
// degree-m LFSR with feedback polynomial poly before it returns to 1, or 0
// if it never returns to 1 within 2^m-1 steps (not primitive).
func lfsrOrder(poly, m int) int {
	size := 1 << m
	reg := 1
	for i := 1; i <= size-1; i++ {
		reg <<= 1
		if reg&size != 0 {
			reg ^= poly
		}
		if reg == 1 {
			return i
		}
	}
	return 0
}

// Mul returns a*b in GF(2^m).
func (f *Field) Mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.alpha[(f.log[a]+f.log[b])%(f.Size-1)]
}

// Div returns a/b in GF(2^m). b must be nonzero.
func (f *Field) Div(a, b int) int {
	if a == 0 {
		return 0
	}
	la := f.log[a]
	lb := f.log[b]
	diff := (la - lb) % (f.Size - 1)
	if diff < 0 {
		diff += f.Size - 1
	}
	return f.alpha[diff]
}

// Pow returns alpha^e for e >= 0 (exponents are taken mod 2^m-1).
func (f *Field) Pow(e int) int {
	e %= f.Size - 1
	if e < 0 {
		e += f.Size - 1
	}
	return f.alpha[e]
}

// Log returns the discrete log of the nonzero element v.
func (f *Field) Log(v int) int {
	return f.log[v]
}

// Eval evaluates the polynomial coeffs (coeffs[i] is the coefficient of
// x^i, an element of GF(2^m)) at field element x, using Horner's method
// with XOR as field addition.
func (f *Field) Eval(coeffs []int, x int) int {
	result := 0
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = f.Mul(result, x) ^ coeffs[i]
	}
	return result
}
