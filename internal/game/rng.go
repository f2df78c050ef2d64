package game

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// RandomSource yields uniform integers in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type cryptoSource struct{}

// NewCryptoSource draws from crypto/rand so outcomes cannot be predicted
// before they are persisted.
func NewCryptoSource() RandomSource {
	return cryptoSource{}
}

func (cryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("game: IntN with non-positive n")
	}
	bound := uint64(n)
	// rejection sampling keeps the draw unbiased
	limit := ^uint64(0) - (^uint64(0) % bound)
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("game: crypto/rand failed: " + err.Error())
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v < limit {
			return int(v % bound)
		}
	}
}

type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource is deterministic for a given seed; tests and replays only.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Shuffle is a Fisher-Yates shuffle driven by src.
func Shuffle(src RandomSource, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		swap(i, j)
	}
}

// SampleDistinct draws k distinct integers from [lo, hi] without replacement,
// in draw order.
func SampleDistinct(src RandomSource, k, lo, hi int) []int {
	pool := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		pool = append(pool, v)
	}
	if k > len(pool) {
		k = len(pool)
	}
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		j := i + src.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}
