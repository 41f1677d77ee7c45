package unrank

import (
	"reflect"
	"sort"
	"testing"
)

func TestSubsetIsBijection(t *testing.T) {
	const n = 10
	for r := 0; r <= n; r++ {
		count := Count(n, r)
		seen := make(map[string]bool)
		for idx := uint64(0); idx < count; idx++ {
			s := Subset(n, r, idx)
			if len(s) != r {
				t.Fatalf("n=%d r=%d idx=%d: expected length %d, got %d", n, r, idx, r, len(s))
			}
			for i := 1; i < len(s); i++ {
				if s[i] <= s[i-1] {
					t.Fatalf("n=%d r=%d idx=%d: not strictly ascending: %v", n, r, idx, s)
				}
			}
			for _, v := range s {
				if v < 0 || v >= n {
					t.Fatalf("n=%d r=%d idx=%d: value out of range: %v", n, r, idx, s)
				}
			}
			key := ""
			for _, v := range s {
				key += string(rune('a' + v))
			}
			if seen[key] {
				t.Fatalf("n=%d r=%d idx=%d: duplicate subset %v", n, r, idx, s)
			}
			seen[key] = true
		}
		if uint64(len(seen)) != count {
			t.Fatalf("n=%d r=%d: expected %d distinct subsets, saw %d", n, r, count, len(seen))
		}
	}
}

func TestSubsetOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range idx")
		}
	}()
	Subset(5, 2, Count(5, 2))
}

func TestSubsetZeroWidth(t *testing.T) {
	if got := Subset(5, 0, 0); got != nil {
		t.Fatalf("expected nil for r == 0, got %v", got)
	}
}

func TestBurstContiguousRun(t *testing.T) {
	const n = 8
	const r = 3
	for idx := 0; idx <= n-r; idx++ {
		got := Burst(n, r, uint64(idx))
		want := make([]int, r)
		for i := range want {
			want[i] = idx + i
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("idx=%d: expected %v, got %v", idx, want, got)
		}
	}
}

func TestBurstOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range idx")
		}
	}()
	Burst(8, 3, 6)
}

func TestSubsetMatchesBruteForceOrdering(t *testing.T) {
	// Lexicographic unranking must enumerate exactly the sorted set of all
	// r-subsets of {0,...,n-1} as idx runs over [0, C(n,r)).
	const n = 6
	const r = 3
	var all [][]int
	var rec func(start int, cur []int)
	rec = func(start int, cur []int) {
		if len(cur) == r {
			cp := make([]int, r)
			copy(cp, cur)
			all = append(all, cp)
			return
		}
		for i := start; i < n; i++ {
			rec(i+1, append(cur, i))
		}
	}
	rec(0, nil)
	sort.Slice(all, func(i, j int) bool {
		for k := 0; k < r; k++ {
			if all[i][k] != all[j][k] {
				return all[i][k] < all[j][k]
			}
		}
		return false
	})

	seenAll := make(map[string]bool)
	for _, s := range all {
		key := ""
		for _, v := range s {
			key += string(rune('a' + v))
		}
		seenAll[key] = true
	}

	for idx := uint64(0); idx < Count(n, r); idx++ {
		s := Subset(n, r, idx)
		key := ""
		for _, v := range s {
			key += string(rune('a' + v))
		}
		if !seenAll[key] {
			t.Fatalf("idx=%d produced %v, not a valid %d-subset of {0..%d}", idx, s, r, n-1)
		}
		if !reflect.DeepEqual(s, all[idx]) {
			t.Fatalf("idx=%d produced %v, expected %v in sorted order", idx, s, all[idx])
		}
	}
}
