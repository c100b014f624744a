package keygen

import "errors"

var (
	ErrInvalidBound    = errors.New("prime search bound must be at least 2")
	ErrSearchExhausted = errors.New("no prime found within search bound")
	ErrNotInvertible   = errors.New("modular inverse does not exist")
	ErrNoExponentFound = errors.New("no public exponent coprime to totient")
	ErrPrimeCollision  = errors.New("p and q are the same prime")
)
