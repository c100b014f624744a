package random

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Local is a pseudo-random Source used in debug mode to save random.org quota.
type Local struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocal returns a Local source. A zero seed picks a random one, any other
// seed makes the sequence reproducible.
func NewLocal(seed uint64) *Local {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Local{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (l *Local) Ints(ctx context.Context, lo, hi, count int) ([]int, error) {
	if lo > hi {
		return nil, fmt.Errorf("local: min %d greater than max %d", lo, hi)
	}
	if count < 0 {
		return nil, fmt.Errorf("local: negative count %d", count)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	span := hi - lo + 1
	ints := make([]int, count)
	for i := range ints {
		ints[i] = l.rng.IntN(span) + lo
	}
	return ints, nil
}
