package noise

import "testing"

func TestSquirrel5Deterministic(t *testing.T) {
	a := Squirrel5(1, 42)
	b := Squirrel5(1, 42)
	if a != b {
		t.Fatalf("expected deterministic output, got %d != %d", a, b)
	}
}

func TestSquirrel5VariesWithPosition(t *testing.T) {
	seen := make(map[uint32]bool)
	for p := uint32(0); p < 1000; p++ {
		seen[Squirrel5(p, 7)] = true
	}
	if len(seen) < 990 {
		t.Fatalf("expected near-unique outputs across positions, got %d unique of 1000", len(seen))
	}
}

func TestSquirrel5U64Deterministic(t *testing.T) {
	a := Squirrel5U64(123456789, 42)
	b := Squirrel5U64(123456789, 42)
	if a != b {
		t.Fatalf("expected deterministic output, got %d != %d", a, b)
	}
}

func TestBoundedU32Range(t *testing.T) {
	const max = 72
	for p := uint32(0); p < 5000; p++ {
		v := BoundedU32(p, 99, max)
		if v >= max {
			t.Fatalf("BoundedU32 returned out-of-range value %d for max %d", v, max)
		}
	}
}

func TestBoundedU32PowerOfTwoNeverRejects(t *testing.T) {
	// max a power of two means threshold == 0, so every draw is accepted
	// immediately; this exercises the non-rejecting fast path.
	v := BoundedU32(17, 3, 8)
	if v >= 8 {
		t.Fatalf("expected value < 8, got %d", v)
	}
}

func TestBoundedU64Range(t *testing.T) {
	const max = 136
	for p := uint64(0); p < 5000; p++ {
		v := BoundedU64(p, 99, max)
		if v >= max {
			t.Fatalf("BoundedU64 returned out-of-range value %d for max %d", v, max)
		}
	}
}
