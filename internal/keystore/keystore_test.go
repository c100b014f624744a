package keystore

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"randgen/internal/keygen"
)

func buildTestPair(t *testing.T) *keygen.KeyPair {
	t.Helper()
	kp, err := keygen.Build(big.NewInt(61), big.NewInt(53), keygen.Bound(8))
	require.NoError(t, err)
	return kp
}

func TestFormat(t *testing.T) {
	kp := buildTestPair(t)
	require.Equal(t, "7,3233", FormatPublic(kp))
	require.Equal(t, "1783", FormatPrivate(kp))
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	store := New(dir)
	kp := buildTestPair(t)

	pubPath, privPath, err := store.Save("tmp", kp)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "tmp.pub"), pubPath)
	require.Equal(t, filepath.Join(dir, "tmp.priv"), privPath)

	pub, err := os.ReadFile(pubPath)
	require.NoError(t, err)
	require.Equal(t, "7,3233", string(pub))

	priv, err := os.ReadFile(privPath)
	require.NoError(t, err)
	require.Equal(t, "1783", string(priv))

	info, err := os.Stat(privPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	keys, err := store.Load("tmp")
	require.NoError(t, err)
	require.Equal(t, 0, keys.E.Cmp(kp.E()))
	require.Equal(t, 0, keys.N.Cmp(kp.N()))
	require.Equal(t, 0, keys.D.Cmp(kp.D()))
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	t.Run("missing comma", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pub"), []byte("7"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.priv"), []byte("1783"), 0o600))
		_, err := store.Load("a")
		require.ErrorIs(t, err, ErrMalformedKey)
	})

	t.Run("non-decimal private key", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pub"), []byte("7,3233"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.priv"), []byte("\x06\xf7"), 0o600))
		_, err := store.Load("b")
		require.ErrorIs(t, err, ErrMalformedKey)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Load("nope")
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParsePublic(t *testing.T) {
	e, n, err := ParsePublic("65537,3233\n")
	require.NoError(t, err)
	require.Equal(t, int64(65537), e.Int64())
	require.Equal(t, int64(3233), n.Int64())

	_, _, err = ParsePublic("1,2,3")
	require.ErrorIs(t, err, ErrMalformedKey)

	_, _, err = ParsePublic("x,2")
	require.ErrorIs(t, err, ErrMalformedKey)
}
