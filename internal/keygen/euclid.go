package keygen

import (
	"fmt"
	"math/big"
)

// Greatest Common Divisor between 2 numbers. Neither argument is modified.
func gcd(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	r := new(big.Int)
	for y.Sign() != 0 {
		r.Mod(x, y)
		x, y, r = y, r, x
	}
	return x
}

// ModularInverse returns d in [0, m) such that (a*d) mod m = 1, using the
// extended Euclidean algorithm. Fails with ErrNotInvertible when
// gcd(a, m) != 1 or m < 2.
func ModularInverse(a, m *big.Int) (*big.Int, error) {
	if m.Cmp(two) < 0 {
		return nil, fmt.Errorf("inverse of %s mod %s: %w", a, m, ErrNotInvertible)
	}

	// remainders and the Bezout coefficient paired with a
	oldR := new(big.Int).Mod(a, m)
	r := new(big.Int).Set(m)
	oldS := big.NewInt(1)
	s := big.NewInt(0)

	quotient := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		quotient.Quo(oldR, r) // integer division only

		tmp.Mul(quotient, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(quotient, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)
	}

	// oldR now holds gcd(a, m)
	if oldR.Cmp(one) != 0 {
		return nil, fmt.Errorf("inverse of %s mod %s (gcd %s): %w", a, m, oldR, ErrNotInvertible)
	}
	return oldS.Mod(oldS, m), nil
}
