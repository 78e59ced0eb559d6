package keys

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// NEP-2 standard parameters for the scrypt KDF.
const (
	n = 16384
	r = 8
	p = 8

	// maxRP is the upper bound (exclusive) for r*p product imposed by scrypt.
	maxRP = 1 << 30

	// MaxScryptN is the largest accepted scrypt work factor.
	MaxScryptN = 1 << 20
	// MaxScryptMemory limits the memory scrypt may allocate for the
	// given parameters, 128*N*R bytes for the work area and 128*R*P
	// for the block buffer.
	MaxScryptMemory = 1 << 30

	// SaltLen is the length of the address hash NEP-2 uses as a KDF salt.
	SaltLen = 4
	// DerivedKeyLen is the length of the key derived by scrypt, two halves
	// of it are used as an XOR mask and an AES key.
	DerivedKeyLen = 64
)

// ErrKDFParameter is returned for invalid scrypt cost parameters.
var ErrKDFParameter = errors.New("invalid scrypt parameters")

// ScryptParams is a json-serializable container for scrypt KDF parameters.
type ScryptParams struct {
	N int `json:"n" yaml:"n"`
	R int `json:"r" yaml:"r"`
	P int `json:"p" yaml:"p"`
}

// NEP2ScryptParams returns scrypt parameters specified in the NEP-2.
func NEP2ScryptParams() ScryptParams {
	return ScryptParams{
		N: n,
		R: r,
		P: p,
	}
}

// Validate checks that the parameters are acceptable for scrypt: N must be
// a power of two greater than 1 not exceeding MaxScryptN, R and P must be
// positive, R*P must be less than 2^30 and the memory needed must fit in
// MaxScryptMemory. Parameters read from a wallet file are untrusted, so
// derivation never starts with anything Validate rejects.
func (s ScryptParams) Validate() error {
	if s.N <= 1 || s.N&(s.N-1) != 0 {
		return fmt.Errorf("%w: N must be a power of two > 1, got %d", ErrKDFParameter, s.N)
	}
	if s.N > MaxScryptN {
		return fmt.Errorf("%w: N must not exceed %d, got %d", ErrKDFParameter, MaxScryptN, s.N)
	}
	if s.R <= 0 || s.P <= 0 {
		return fmt.Errorf("%w: R and P must be positive, got %d and %d", ErrKDFParameter, s.R, s.P)
	}
	if uint64(s.R)*uint64(s.P) >= maxRP {
		return fmt.Errorf("%w: R*P must be less than 2^30, got %d*%d", ErrKDFParameter, s.R, s.P)
	}
	if 128*uint64(s.R)*uint64(s.N) > MaxScryptMemory || 128*uint64(s.R)*uint64(s.P) > MaxScryptMemory {
		return fmt.Errorf("%w: N=%d, R=%d, P=%d need more than %d bytes",
			ErrKDFParameter, s.N, s.R, s.P, MaxScryptMemory)
	}
	return nil
}

// DeriveKey derives a DerivedKeyLen-byte key from the password and the
// 4-byte salt using scrypt with the given parameters. It's deterministic
// and intentionally slow for production parameters.
func DeriveKey(password []byte, salt []byte, params ScryptParams) ([]byte, error) {
	if len(salt) != SaltLen {
		return nil, fmt.Errorf("%w: invalid salt length %d", ErrCrypto, len(salt))
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	dk, err := scrypt.Key(password, salt, params.N, params.R, params.P, DerivedKeyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKDFParameter, err)
	}
	return dk, nil
}
