package keygen

import (
	"fmt"
	"math/big"
)

// KeyPair holds the values derived by Build. It is never modified after
// construction; accessors hand out copies.
type KeyPair struct {
	p, q       *big.Int
	n, totient *big.Int
	e, d       *big.Int
}

func (k *KeyPair) P() *big.Int       { return new(big.Int).Set(k.p) }
func (k *KeyPair) Q() *big.Int       { return new(big.Int).Set(k.q) }
func (k *KeyPair) N() *big.Int       { return new(big.Int).Set(k.n) }
func (k *KeyPair) Totient() *big.Int { return new(big.Int).Set(k.totient) }

// E is the public exponent.
func (k *KeyPair) E() *big.Int { return new(big.Int).Set(k.e) }

// D is the private exponent.
func (k *KeyPair) D() *big.Int { return new(big.Int).Set(k.d) }

func (k *KeyPair) String() string {
	return fmt.Sprintf("p=%s q=%s n=%s totient=%s e=%s d=%s", k.p, k.q, k.n, k.totient, k.e, k.d)
}

// Bound returns 2^bits, the exclusive upper limit of seeds and primes.
func Bound(bits int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(bits))
}

// Build derives a key pair from two seeds. p and q are searched independently,
// then n = p*q, totient = (p-1)(q-1), e is selected and d = e^-1 mod totient.
// The first failing step aborts the build. Two seeds landing on the same prime
// fail with ErrPrimeCollision so the caller can draw a new seed for q.
func Build(seedP, seedQ, bound *big.Int) (*KeyPair, error) {
	p, err := ClosestPrime(seedP, bound)
	if err != nil {
		return nil, fmt.Errorf("finding p: %w", err)
	}

	q, err := ClosestPrime(seedQ, bound)
	if err != nil {
		return nil, fmt.Errorf("finding q: %w", err)
	}

	if p.Cmp(q) == 0 {
		return nil, fmt.Errorf("seeds %s and %s both map to %s: %w", seedP, seedQ, p, ErrPrimeCollision)
	}

	// n = p * q
	n := new(big.Int).Mul(p, q)

	// Eulers Totient -- ϕ(n) = (p−1)(q−1)
	totient := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))

	e, err := SelectExponent(totient)
	if err != nil {
		return nil, fmt.Errorf("setting e (p=%s q=%s): %w", p, q, err)
	}

	d, err := ModularInverse(e, totient)
	if err != nil {
		return nil, fmt.Errorf("calculating d (p=%s q=%s): %w", p, q, err)
	}

	return &KeyPair{p: p, q: q, n: n, totient: totient, e: e, d: d}, nil
}
