package internal

// Codec is a from-scratch binary BCH(n, k, t) encoder/decoder, shortened to
// a caller-chosen message length. It operates directly on MSB-first packed
// byte buffers, mirroring the byte-oriented ABI of a real external BCH
// library rather than this tree's own bitvec.BitVector type.
type Codec struct {
	field     *Field
	t         int
	eccBits   int
	dataBits  int
	n         int // dataBits + eccBits, the shortened codeword length
	generator []int
	genMask   int
}

// New builds a Codec for GF(2^m), correction capability t, and a message of
// dataBits bits (which may be a shortened subset of the natural GF(2^m)
// message length).
func New(m, t, dataBits int) (*Codec, error) {
	if m < 2 || t < 1 || dataBits < 1 {
		return nil, ErrInvalidParams
	}

	field := NewField(m)
	generator := buildGenerator(field, t)
	eccBits := len(generator) - 1
	n := dataBits + eccBits
	natural := field.Size - 1
	if n > natural || eccBits == 0 {
		return nil, ErrInvalidParams
	}

	genMask := 0
	for i := 0; i < eccBits; i++ {
		if generator[i] != 0 {
			genMask |= 1 << uint(eccBits-1-i)
		}
	}

	return &Codec{
		field:     field,
		t:         t,
		eccBits:   eccBits,
		dataBits:  dataBits,
		n:         n,
		generator: generator,
		genMask:   genMask,
	}, nil
}

// ECCBits returns the ecc width this generator polynomial produces.
func (c *Codec) ECCBits() int { return c.eccBits }

func getBit(buf []byte, i int) bool {
	return buf[i/8]&(1<<uint(7-i%8)) != 0
}

func setBit(buf []byte, i int, v bool) {
	if v {
		buf[i/8] |= 1 << uint(7-i%8)
	} else {
		buf[i/8] &^= 1 << uint(7-i%8)
	}
}

// Encode runs dataBytes (MSB-first packed, dataBits significant bits)
// through the generator's bit-serial LFSR and returns the resulting ecc
// bytes, using the same exponent layout as bitAt: data bit j is the
// coefficient of x^(eccBits+j) and ecc bit p the coefficient of x^p.
// Shortening is handled for free: the register starts at zero, and the
// absent higher-order message bits of a shortened message never perturb it.
func (c *Codec) Encode(dataBytes []byte) []byte {
	eccBytes := make([]byte, (c.eccBits+7)/8)
	// Register bit eccBits-1-p holds the coefficient of x^p, the same layout
	// as genMask, so the x^(eccBits-1) coefficient is bit 0.
	reg := 0
	for i := c.dataBits - 1; i >= 0; i-- {
		top := reg & 1
		feedback := top
		if getBit(dataBytes, i) {
			feedback ^= 1
		}
		reg >>= 1
		if feedback == 1 {
			reg ^= c.genMask
		}
	}
	for p := 0; p < c.eccBits; p++ {
		setBit(eccBytes, p, (reg>>uint(c.eccBits-1-p))&1 != 0)
	}
	return eccBytes
}

// bitAt returns the value of the combined codeword (ecc bits at exponents
// [0, eccBits), data bits at exponents [eccBits, n)) at the given exponent.
func (c *Codec) bitAt(dataBytes, eccBytes []byte, exponent int) bool {
	if exponent < c.eccBits {
		return getBit(eccBytes, exponent)
	}
	return getBit(dataBytes, exponent-c.eccBits)
}

// Decode computes 2t syndromes from (dataBytes, eccBytes) and, if they are
// not all zero, runs Berlekamp-Massey and a Chien search restricted to the
// shortened codeword's exponent range [0, n) to locate errors. It returns
// the combined-indexing bit positions (ecc bits numbered [0,eccBits), data
// bits numbered [eccBits,n)) that need flipping; a nil, nil result means no
// error was detected.
func (c *Codec) Decode(dataBytes, eccBytes []byte) ([]int, error) {
	syndromes := make([]int, 2*c.t)
	allZero := true
	for s := 1; s <= 2*c.t; s++ {
		acc := 0
		for idx := 0; idx < c.n; idx++ {
			if c.bitAt(dataBytes, eccBytes, idx) {
				acc ^= c.field.Pow(s * idx)
			}
		}
		syndromes[s-1] = acc
		if acc != 0 {
			allZero = false
		}
	}
	if allZero {
		return nil, nil
	}

	sigma, err := berlekampMassey(c.field, syndromes, c.t)
	if err != nil {
		return nil, ErrUncorrectable
	}

	roots := chienSearch(c.field, sigma, c.n)
	if len(roots) != len(sigma)-1 {
		return nil, ErrUncorrectable
	}
	return roots, nil
}

// berlekampMassey synthesizes the shortest LFSR (error-locator polynomial
// sigma) that generates the syndrome sequence S, returning
// ErrUncorrectable if the synthesized locator's degree exceeds t.
func berlekampMassey(f *Field, S []int, t int) ([]int, error) {
	n := len(S)
	C := make([]int, n+1)
	B := make([]int, n+1)
	C[0], B[0] = 1, 1
	L := 0
	m := 1
	b := 1

	for i := 0; i < n; i++ {
		delta := S[i]
		for j := 1; j <= L; j++ {
			delta ^= f.Mul(C[j], S[i-j])
		}

		if delta == 0 {
			m++
			continue
		}

		T := make([]int, len(C))
		copy(T, C)
		coef := f.Div(delta, b)
		for j := 0; j < len(B); j++ {
			if j+m < len(C) {
				C[j+m] ^= f.Mul(coef, B[j])
			}
		}

		if 2*L <= i {
			L = i + 1 - L
			copy(B, T)
			b = delta
			m = 1
		} else {
			m++
		}
	}

	if L > t {
		return nil, ErrUncorrectable
	}
	return C[:L+1], nil
}

// chienSearch evaluates sigma at alpha^-idx for every exponent idx in the
// shortened codeword's range, returning the exponents where it vanishes.
func chienSearch(f *Field, sigma []int, n int) []int {
	var roots []int
	for idx := 0; idx < n; idx++ {
		if f.Eval(sigma, f.Pow(-idx)) == 0 {
			roots = append(roots, idx)
		}
	}
	return roots
}

// buildGenerator constructs the BCH generator polynomial as the GF(2)
// product of the minimal polynomials of alpha^1..alpha^(2t), grouped by
// cyclotomic coset so each distinct minimal polynomial is included once.
func buildGenerator(f *Field, t int) []int {
	n := f.Size - 1
	generator := []int{1}
	covered := make(map[int]bool)
	for i := 1; i <= 2*t; i++ {
		if covered[i] {
			continue
		}
		coset := cyclotomicCoset(i, n)
		for _, j := range coset {
			covered[j] = true
		}
		generator = gf2PolyMul(generator, minimalPolynomial(f, coset))
	}
	return generator
}

// cyclotomicCoset returns {i, 2i mod n, 4i mod n, ...} up to its first
// repeat.
func cyclotomicCoset(i, n int) []int {
	seen := make(map[int]bool)
	var coset []int
	j := i % n
	for !seen[j] {
		seen[j] = true
		coset = append(coset, j)
		j = (2 * j) % n
	}
	return coset
}

// minimalPolynomial returns the GF(2)-coefficient minimal polynomial of
// alpha^coset[0], computed as the product of (x + alpha^j) for every j in
// its cyclotomic coset. The accumulated coefficients are guaranteed to
// collapse to {0,1} by Frobenius-invariance over the full coset.
func minimalPolynomial(f *Field, coset []int) []int {
	poly := []int{1}
	for _, j := range coset {
		root := f.Pow(j)
		next := make([]int, len(poly)+1)
		for idx, c := range poly {
			next[idx+1] ^= c
			next[idx] ^= f.Mul(c, root)
		}
		poly = next
	}
	return poly
}

// gf2PolyMul multiplies two GF(2)-coefficient polynomials (low-order
// coefficient first).
func gf2PolyMul(a, b []int) []int {
	result := make([]int, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			if bj != 0 {
				result[i+j] ^= 1
			}
		}
	}
	return result
}
