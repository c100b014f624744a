package keygen

import (
	"fmt"
	"math/big"
)

// PreferredExponent is tried first since it makes encryption cheap.
const PreferredExponent = 65537

// SelectExponent chooses e with 1 < e < totient and gcd(e, totient) = 1.
// 65537 is returned when it qualifies, otherwise the smallest qualifying
// integer starting from 3.
func SelectExponent(totient *big.Int) (*big.Int, error) {
	if totient.Cmp(two) <= 0 {
		return nil, fmt.Errorf("exponent for totient %s: %w", totient, ErrNoExponentFound)
	}

	e := big.NewInt(PreferredExponent)
	if e.Cmp(totient) < 0 && gcd(e, totient).Cmp(one) == 0 {
		return e, nil
	}

	// totient-1 is always coprime, so this ends before reaching totient
	for i := big.NewInt(3); i.Cmp(totient) < 0; i.Add(i, one) {
		if gcd(i, totient).Cmp(one) == 0 {
			return i, nil
		}
	}
	return nil, fmt.Errorf("exponent for totient %s: %w", totient, ErrNoExponentFound)
}
