package game

import (
	"sort"
	"testing"
)

func TestSeededSourceDeterministic(t *testing.T) {
	a, b := NewSeededSource(42), NewSeededSource(42)
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(49), b.IntN(49); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestCryptoSourceInRange(t *testing.T) {
	src := NewCryptoSource()
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := src.IntN(6)
		if v < 0 || v >= 6 {
			t.Fatalf("IntN(6) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 6 {
		t.Fatalf("only saw %v", seen)
	}
}

func TestSampleDistinct(t *testing.T) {
	src := NewSeededSource(7)
	for round := 0; round < 50; round++ {
		got := SampleDistinct(src, 7, 1, 49)
		if len(got) != 7 {
			t.Fatalf("len = %d", len(got))
		}
		sorted := append([]int(nil), got...)
		sort.Ints(sorted)
		for i, v := range sorted {
			if v < 1 || v > 49 {
				t.Fatalf("out of range: %v", got)
			}
			if i > 0 && sorted[i-1] == v {
				t.Fatalf("duplicate in %v", got)
			}
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	xs := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	Shuffle(NewSeededSource(1), len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			t.Fatalf("not a permutation: %v", xs)
		}
	}
}
