package engine

import (
	"math/rand"
	"time"
)

// Rand is the randomness source for dice, exam shuffles, and mishap draws.
// *math/rand.Rand satisfies it, so tests can inject a fixed-seed source to
// replay games deterministically.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded source suitable for replayable games.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

func newDefaultRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
