package keygen

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestModularInverse(t *testing.T) {
	t.Run("small modulus", func(t *testing.T) {
		d, err := ModularInverse(big.NewInt(3), big.NewInt(11))
		require.NoError(t, err)
		require.Equal(t, int64(4), d.Int64())
	})

	t.Run("textbook rsa exponent", func(t *testing.T) {
		d, err := ModularInverse(big.NewInt(17), big.NewInt(3120))
		require.NoError(t, err)
		require.Equal(t, int64(2753), d.Int64())
	})

	t.Run("result reduced into range", func(t *testing.T) {
		d, err := ModularInverse(big.NewInt(7), big.NewInt(3120))
		require.NoError(t, err)
		require.Equal(t, int64(1783), d.Int64())
	})

	t.Run("a larger than m", func(t *testing.T) {
		d, err := ModularInverse(big.NewInt(14), big.NewInt(11))
		require.NoError(t, err)
		require.Equal(t, int64(4), d.Int64())
	})

	t.Run("not coprime", func(t *testing.T) {
		_, err := ModularInverse(big.NewInt(4), big.NewInt(8))
		require.ErrorIs(t, err, ErrNotInvertible)
	})

	t.Run("multiple of m", func(t *testing.T) {
		_, err := ModularInverse(big.NewInt(22), big.NewInt(11))
		require.ErrorIs(t, err, ErrNotInvertible)
	})

	t.Run("modulus one", func(t *testing.T) {
		_, err := ModularInverse(big.NewInt(3), big.NewInt(1))
		require.ErrorIs(t, err, ErrNotInvertible)
	})
}

func TestSelectExponent(t *testing.T) {
	tests := []struct {
		name    string
		totient int64
		want    int64
	}{
		{"preferred exponent fits", 70000, PreferredExponent},
		{"preferred exponent too large", 3120, 7},
		{"preferred exponent equals totient", 65537, 3},
		{"totient divisible by 65537", 2 * 65537, 3},
		{"fallback skips shared factors", 6 * 65537, 5},
		{"smallest usable totient", 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := SelectExponent(big.NewInt(tt.totient))
			require.NoError(t, err)
			require.Equal(t, tt.want, e.Int64())
		})
	}

	t.Run("totient too small", func(t *testing.T) {
		for _, totient := range []int64{0, 1, 2} {
			_, err := SelectExponent(big.NewInt(totient))
			require.ErrorIs(t, err, ErrNoExponentFound)
		}
	})
}

func TestBuild(t *testing.T) {
	bound := Bound(8)

	t.Run("known primes", func(t *testing.T) {
		kp, err := Build(big.NewInt(61), big.NewInt(53), bound)
		require.NoError(t, err)
		require.Equal(t, int64(61), kp.P().Int64())
		require.Equal(t, int64(53), kp.Q().Int64())
		require.Equal(t, int64(3233), kp.N().Int64())
		require.Equal(t, int64(3120), kp.Totient().Int64())
		require.Equal(t, int64(7), kp.E().Int64())
		require.Equal(t, int64(1783), kp.D().Int64())
	})

	t.Run("same prime", func(t *testing.T) {
		_, err := Build(big.NewInt(62), big.NewInt(61), bound)
		require.ErrorIs(t, err, ErrPrimeCollision)
	})

	t.Run("no prime below bound", func(t *testing.T) {
		_, err := Build(big.NewInt(0), big.NewInt(1), big.NewInt(2))
		require.ErrorIs(t, err, ErrSearchExhausted)
		require.ErrorContains(t, err, "finding p")
	})

	t.Run("totient too small for an exponent", func(t *testing.T) {
		// only 2 and 3 exist below 4, totient = 1*2
		_, err := Build(big.NewInt(2), big.NewInt(3), Bound(2))
		require.ErrorIs(t, err, ErrNoExponentFound)
	})

	t.Run("accessors return copies", func(t *testing.T) {
		kp, err := Build(big.NewInt(61), big.NewInt(53), bound)
		require.NoError(t, err)
		kp.D().SetInt64(0)
		require.Equal(t, int64(1783), kp.D().Int64())
	})
}

// Every seed pair in an 8 bit range that yields distinct primes must satisfy the RSA relations.
func TestBuildInvariants(t *testing.T) {
	bound := Bound(8)
	for sp := int64(0); sp < 256; sp += 5 {
		for sq := int64(1); sq < 256; sq += 11 {
			kp, err := Build(big.NewInt(sp), big.NewInt(sq), bound)
			if err != nil {
				require.ErrorIs(t, err, ErrPrimeCollision)
				continue
			}

			p, q, e, d, totient := kp.P(), kp.Q(), kp.E(), kp.D(), kp.Totient()
			require.True(t, IsPrime(p))
			require.True(t, IsPrime(q))
			require.Less(t, p.Int64(), int64(256))
			require.Less(t, q.Int64(), int64(256))

			require.Equal(t, 0, kp.N().Cmp(new(big.Int).Mul(p, q)))

			expectedTotient := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))
			require.Equal(t, 0, totient.Cmp(expectedTotient))

			require.Equal(t, 1, e.Cmp(one))
			require.Equal(t, -1, e.Cmp(totient))
			require.Equal(t, 0, gcd(e, totient).Cmp(one))

			// Verify e*d ≡ 1 mod totient
			product := new(big.Int).Mul(e, d)
			require.Equal(t, 0, product.Mod(product, totient).Cmp(one), "seeds %d %d: %s", sp, sq, kp)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	bigIntEqual := cmp.Comparer(func(x, y *big.Int) bool { return x.Cmp(y) == 0 })

	first, err := Build(big.NewInt(140), big.NewInt(201), Bound(8))
	require.NoError(t, err)
	second, err := Build(big.NewInt(140), big.NewInt(201), Bound(8))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(KeyPair{}), bigIntEqual); diff != "" {
		t.Errorf("Build not deterministic (-first +second):\n%s", diff)
	}
}
