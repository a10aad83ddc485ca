// Package entropy provides the randomness source injected into every
// randomized operation (closure expansion, group/template picks, hints).
//
// Tests pin sequences with New(seed); the server uses NewRandom, which
// seeds from crypto/rand. Both are safe for concurrent use.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Source is the subset of *math/rand.Rand the game relies on.
type Source interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *locked) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// New returns a deterministic source for the given seed.
func New(seed int64) Source {
	return &locked{r: rand.New(rand.NewSource(seed))}
}

// NewRandom returns a source seeded from crypto/rand.
func NewRandom() Source {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return New(int64(binary.LittleEndian.Uint64(b[:])))
}

// Pick returns a uniformly chosen element of xs. xs must be non-empty.
func Pick[T any](src Source, xs []T) T {
	return xs[src.Intn(len(xs))]
}

// Shuffled returns a shuffled copy of xs; xs itself is left untouched.
func Shuffled[T any](src Source, xs []T) []T {
	out := append([]T(nil), xs...)
	src.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
