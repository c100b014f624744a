package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/google/uuid"

	"randgen/internal/keygen"
	"randgen/internal/random"
)

const (
	MinBits = 2
	// random.org refuses values above 1e9
	MaxBits = 29

	DefaultMaxRerolls = 8
)

// KeyRecord is one finished generation run.
type KeyRecord struct {
	ID   uuid.UUID
	Pair *keygen.KeyPair
}

// Generator draws seeds from a random source and turns them into key pairs.
// All randomness goes through src one request at a time, so src should be a
// *random.Batched when it is shared.
type Generator struct {
	src        random.Source
	bits       int
	bound      *big.Int
	maxRerolls int
	logger     *slog.Logger
}

type Option func(*Generator)

// WithMaxRerolls limits how many fresh q seeds are drawn when p and q collide.
func WithMaxRerolls(n int) Option {
	return func(g *Generator) {
		g.maxRerolls = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

func New(src random.Source, bits int, options ...Option) (*Generator, error) {
	if bits < MinBits || bits > MaxBits {
		return nil, fmt.Errorf("prime bits %d outside [%d, %d]", bits, MinBits, MaxBits)
	}
	g := &Generator{
		src:        src,
		bits:       bits,
		bound:      keygen.Bound(bits),
		maxRerolls: DefaultMaxRerolls,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		opt(g)
	}
	if g.maxRerolls < 0 {
		return nil, fmt.Errorf("negative reroll limit %d", g.maxRerolls)
	}
	return g, nil
}

// seeds draws count values in [0, bound).
func (g *Generator) seeds(ctx context.Context, count int) ([]*big.Int, error) {
	ints, err := g.src.Ints(ctx, 0, int(g.bound.Int64())-1, count)
	if err != nil {
		return nil, fmt.Errorf("drawing %d seeds: %w", count, err)
	}
	seeds := make([]*big.Int, len(ints))
	for i, v := range ints {
		seeds[i] = big.NewInt(int64(v))
	}
	return seeds, nil
}

// Generate runs a single key generation: both seeds come from one request.
func (g *Generator) Generate(ctx context.Context) (*KeyRecord, error) {
	seeds, err := g.seeds(ctx, 2)
	if err != nil {
		return nil, err
	}
	return g.build(ctx, seeds[0], seeds[1])
}

// GenerateMany runs count independent generations. All 2*count seeds are
// fetched up front, then the pairs are built concurrently. Records come back
// in seed order; the first failing run (by index) is reported.
func (g *Generator) GenerateMany(ctx context.Context, count int) ([]*KeyRecord, error) {
	if count < 1 {
		return nil, fmt.Errorf("key count %d must be positive", count)
	}

	seeds, err := g.seeds(ctx, 2*count)
	if err != nil {
		return nil, err
	}

	records := make([]*KeyRecord, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records[i], errs[i] = g.build(ctx, seeds[2*i], seeds[2*i+1])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
	}
	return records, nil
}

func (g *Generator) build(ctx context.Context, seedP, seedQ *big.Int) (*KeyRecord, error) {
	id := uuid.New()
	log := g.logger.With("run", id)

	for attempt := 0; ; attempt++ {
		log.DebugContext(ctx, "building key pair", "seed_p", seedP, "seed_q", seedQ, "bits", g.bits)

		kp, err := keygen.Build(seedP, seedQ, g.bound)
		if err == nil {
			log.DebugContext(ctx, "key pair generated",
				"p", kp.P(), "q", kp.Q(), "n", kp.N(), "totient", kp.Totient(), "e", kp.E())
			return &KeyRecord{ID: id, Pair: kp}, nil
		}

		if !errors.Is(err, keygen.ErrPrimeCollision) || attempt >= g.maxRerolls {
			log.ErrorContext(ctx, "key generation failed", "error", err, "attempts", attempt+1)
			return nil, err
		}

		log.WarnContext(ctx, "p and q collided, drawing a new seed for q", "attempt", attempt+1)
		fresh, err := g.seeds(ctx, 1)
		if err != nil {
			return nil, err
		}
		seedQ = fresh[0]
	}
}
