package keygen

import (
	"fmt"
	"math/big"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// IsPrime reports whether x is prime using trial division.
// Anything below 2, including zero and negatives, is not prime.
func IsPrime(x *big.Int) bool {
	if x.Cmp(two) < 0 {
		return false
	}

	// i*i <= x keeps the bound in the integer domain
	i := big.NewInt(2)
	sq := new(big.Int)
	rem := new(big.Int)
	for sq.Mul(i, i).Cmp(x) <= 0 {
		if rem.Mod(x, i).Sign() == 0 {
			return false
		}
		i.Add(i, one)
	}
	return true
}

// zigzag maps the k-th natural number onto the signed offsets
// 0, -1, 1, -2, 2, ...
func zigzag(k int64) int64 {
	if k%2 == 0 {
		return k / 2
	}
	return -(k + 1) / 2
}

// ClosestPrime returns the prime nearest to seed, looking at seed, seed-1,
// seed+1, seed-2, ... with every candidate wrapped into [0, bound).
// The lower neighbour wins ties. Every residue modulo bound is visited once
// before the search gives up with ErrSearchExhausted.
func ClosestPrime(seed, bound *big.Int) (*big.Int, error) {
	if bound.Cmp(two) < 0 {
		return nil, fmt.Errorf("closest prime to %s: %w (got %s)", seed, ErrInvalidBound, bound)
	}
	if !bound.IsInt64() {
		return nil, fmt.Errorf("closest prime to %s: %w (bound %s too large)", seed, ErrInvalidBound, bound)
	}

	limit := bound.Int64()
	candidate := new(big.Int)
	for k := int64(0); k < limit; k++ {
		candidate.Add(seed, big.NewInt(zigzag(k)))
		candidate.Mod(candidate, bound) // Euclidean, always in [0, bound)
		if IsPrime(candidate) {
			return new(big.Int).Set(candidate), nil
		}
	}
	return nil, fmt.Errorf("closest prime to %s below %s: %w", seed, bound, ErrSearchExhausted)
}
