// Package bch adapts the from-scratch binary BCH primitive in
// ecc/bch/internal to the ecc.Scheme interface, packing/unpacking between
// bitvec.BitVector and MSB-first byte buffers at the boundary.
package bch

import (
	"math/bits"

	"github.com/nathanhack/eccfault/bitvec"
	"github.com/nathanhack/eccfault/ecc"
	"github.com/nathanhack/eccfault/ecc/bch/internal"
)

// Scheme implements ecc.Scheme for a binary BCH code with correction
// capability t, built for a fixed data width d.
type Scheme struct {
	codec *internal.Codec
	d     int
	k     int
}

// New builds a BCH scheme for a d-bit data word with correction capability
// t, using m = ceil(log2(d+1)) as the Galois field degree.
func New(d, t int) (Scheme, error) {
	m := galoisDegreeFor(d)
	codec, err := internal.New(m, t, d)
	if err != nil {
		return Scheme{}, err
	}
	return Scheme{codec: codec, d: d, k: codec.ECCBits()}, nil
}

// galoisDegreeFor returns ceil(log2(d+1)).
func galoisDegreeFor(d int) int {
	return bits.Len(uint(d))
}

func (s Scheme) DataWidth() int { return s.d }
func (s Scheme) ECCWidth() int  { return s.k }

// Construct packs data, invokes the internal codec's Encode, and unpacks
// the resulting ecc bytes.
func (s Scheme) Construct(data bitvec.BitVector) bitvec.BitVector {
	if len(data) != s.d {
		panic("bch: data has wrong width")
	}
	eccBytes := s.codec.Encode(bitvec.Pack(data))
	return bitvec.Unpack(eccBytes, s.k)
}

// CheckAndCorrect packs data and ecc, invokes the internal codec's Decode,
// and applies any located corrections by flipping bits in the packed
// buffers and re-encoding to rebuild ecc, before unpacking the result back
// into data and ecc.
func (s Scheme) CheckAndCorrect(data, eccBuf bitvec.BitVector) ecc.Detection {
	if len(data) != s.d || len(eccBuf) != s.k {
		panic("bch: buffer has wrong width")
	}

	dataBytes := bitvec.Pack(data)
	eccBytes := bitvec.Pack(eccBuf)

	locations, err := s.codec.Decode(dataBytes, eccBytes)
	if err == internal.ErrUncorrectable {
		return ecc.UNCORRECTABLE
	}
	if err != nil {
		// Decode only ever returns ErrUncorrectable once constructed; any
		// other error means New should have rejected these parameters.
		panic(ecc.ErrInvariantViolation)
	}

	if len(locations) == 0 {
		return ecc.OK
	}

	for _, pos := range locations {
		if pos >= s.k {
			flipPackedBit(dataBytes, pos-s.k)
		}
	}
	// Rebuild ecc by re-encoding the corrected data: this is equivalent to
	// flipping any located ecc-segment bits directly, since a located
	// error in the ecc segment only ever differs from the freshly
	// recomputed ecc in that same bit.
	eccBytes = s.codec.Encode(dataBytes)

	corrected := bitvec.Unpack(dataBytes, s.d)
	copy(data, corrected)
	copy(eccBuf, bitvec.Unpack(eccBytes, s.k))
	return ecc.CORRECTED
}

func flipPackedBit(buf []byte, i int) {
	buf[i/8] ^= 1 << uint(7-i%8)
}
