package keystore

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"randgen/internal/keygen"
)

const (
	PublicExt  = ".pub"
	PrivateExt = ".priv"
)

var ErrMalformedKey = errors.New("malformed key file")

// Keys is what the key files hold: the public pair e,n and the private exponent d.
type Keys struct {
	E, N, D *big.Int
}

// Public key record - "e,n" in decimal
func FormatPublic(kp *keygen.KeyPair) string {
	return fmt.Sprintf("%s,%s", kp.E(), kp.N())
}

// Private key record - the decimal digits of d
func FormatPrivate(kp *keygen.KeyPair) string {
	return kp.D().String()
}

func ParsePublic(s string) (e, n *big.Int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("%w: public key %q is not \"e,n\"", ErrMalformedKey, s)
	}
	e, ok := new(big.Int).SetString(parts[0], 10)
	if !ok {
		return nil, nil, fmt.Errorf("%w: exponent %q", ErrMalformedKey, parts[0])
	}
	n, ok = new(big.Int).SetString(parts[1], 10)
	if !ok {
		return nil, nil, fmt.Errorf("%w: modulus %q", ErrMalformedKey, parts[1])
	}
	return e, n, nil
}

func ParsePrivate(s string) (*big.Int, error) {
	d, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("%w: private exponent %q", ErrMalformedKey, s)
	}
	return d, nil
}

// Store writes key files into a single directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) paths(name string) (string, string) {
	base := filepath.Join(s.dir, name)
	return base + PublicExt, base + PrivateExt
}

// Save writes <name>.pub and <name>.priv, creating the directory if needed.
// It returns the two paths written.
func (s *Store) Save(name string, kp *keygen.KeyPair) (string, string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating %s: %w", s.dir, err)
	}

	pubPath, privPath := s.paths(name)
	if err := os.WriteFile(pubPath, []byte(FormatPublic(kp)), 0o644); err != nil {
		return "", "", fmt.Errorf("writing public key: %w", err)
	}
	if err := os.WriteFile(privPath, []byte(FormatPrivate(kp)), 0o600); err != nil {
		return "", "", fmt.Errorf("writing private key: %w", err)
	}
	return pubPath, privPath, nil
}

func (s *Store) Load(name string) (*Keys, error) {
	pubPath, privPath := s.paths(name)

	pub, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, err
	}
	e, n, err := ParsePublic(string(pub))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pubPath, err)
	}

	priv, err := os.ReadFile(privPath)
	if err != nil {
		return nil, err
	}
	d, err := ParsePrivate(string(priv))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", privPath, err)
	}

	return &Keys{E: e, N: n, D: d}, nil
}
