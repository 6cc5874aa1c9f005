package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// UniformSizes returns n allocation sizes uniformly distributed in [1, maxSize].
func (r *RNG) UniformSizes(n int, maxSize uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	sizes := make([]uint64, n)
	if maxSize == 0 {
		return sizes
	}
	for i := range sizes {
		sizes[i] = 1 + r.rand.Uint64()%maxSize
	}
	return sizes
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Normalization constant (harmonic number with exponent s).
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Inverse transform on a uniform sample.
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// ZipfSizes returns n allocation sizes that are multiples of 16 bytes with
// a Zipfian rank in [1, buckets]: most requests are small, a few are large.
func (r *RNG) ZipfSizes(n, buckets int, s float64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	sizes := make([]uint64, n)
	for i := range sizes {
		sizes[i] = uint64(r.zipfLocked(buckets, s)+1) * 16
	}
	return sizes
}

// FillPattern writes a byte pattern derived from id into buf.
func FillPattern(buf []byte, id int) {
	for i := range buf {
		buf[i] = patternByte(id, i)
	}
}

// CheckPattern reports whether buf still holds the pattern FillPattern wrote
// for id.
func CheckPattern(buf []byte, id int) bool {
	for i := range buf {
		if buf[i] != patternByte(id, i) {
			return false
		}
	}
	return true
}

func patternByte(id, i int) byte {
	return byte(id*31 + i*7 + 1)
}
