package random

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MaxPerRequest is the largest number of integers random.org hands out at once.
const MaxPerRequest = 10000

var ErrRandomSource = errors.New("random source request failed")

// Source returns count integers uniformly drawn from [lo, hi].
type Source interface {
	Ints(ctx context.Context, lo, hi, count int) ([]int, error)
}

// Batched serialises access to a Source and splits large requests into
// sequential chunks of at most max values, concatenated in order.
// Only one request is ever in flight through a Batched source.
type Batched struct {
	mu  sync.Mutex
	src Source
	max int
}

func NewBatched(src Source, max int) *Batched {
	if max <= 0 || max > MaxPerRequest {
		max = MaxPerRequest
	}
	return &Batched{src: src, max: max}
}

func (b *Batched) Ints(ctx context.Context, lo, hi, count int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative count %d", count)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]int, 0, count)
	for remaining := count; remaining > 0; {
		n := min(remaining, b.max)
		chunk, err := b.src.Ints(ctx, lo, hi, n)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		remaining -= n
	}
	return out, nil
}
