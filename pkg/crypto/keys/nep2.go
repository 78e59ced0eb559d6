package keys

import (
	"bytes"
	"crypto/aes"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-keystore/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-keystore/pkg/encoding/base58"
	"github.com/nspcc-dev/neo-keystore/pkg/util/slice"
	"golang.org/x/text/unicode/norm"
)

// NEP-2 standard implementation for encrypting and decrypting private keys.

// NEP-2 specified constants for the binary layout.
const (
	nepFlag = 0xe0
	// nep2Len is the length of the decoded NEP-2 payload.
	nep2Len = 39
	// privKeyLen is the length of the encrypted private key in bytes.
	privKeyLen = 32
)

var nepHeader = []byte{0x01, 0x42}

var (
	// ErrWrongPassword is returned when the key decrypted from NEP-2 doesn't
	// match the address hash stored along with it.
	ErrWrongPassword = errors.New("password mismatch")
	// ErrNEP2Format is returned for strings that decode fine, but have
	// a wrong NEP-2 length or header.
	ErrNEP2Format = errors.New("invalid NEP-2 key")
	// ErrCrypto is returned for malformed inputs of the hash and cipher stages.
	ErrCrypto = errors.New("crypto failure")
)

// NEP2Encrypt encrypts a the PrivateKey using the given passphrase
// under the NEP-2 standard.
func NEP2Encrypt(priv *PrivateKey, passphrase string, params ScryptParams) (s string, err error) {
	address := priv.Address()
	addrHash := hash.Checksum([]byte(address))

	// Normalize the passphrase according to the NFC standard.
	phraseNorm := norm.NFC.Bytes([]byte(passphrase))
	defer slice.Clean(phraseNorm)
	derivedKey, err := DeriveKey(phraseNorm, addrHash, params)
	if err != nil {
		return s, err
	}
	defer slice.Clean(derivedKey)

	derivedKey1 := derivedKey[:32]
	derivedKey2 := derivedKey[32:]

	privBytes := priv.Bytes()
	defer slice.Clean(privBytes)
	xr := xor(privBytes, derivedKey1)
	defer slice.Clean(xr)

	encrypted, err := aesEncrypt(xr, derivedKey2)
	if err != nil {
		return s, err
	}

	buf := make([]byte, 0, nep2Len)
	buf = append(buf, nepHeader...)
	buf = append(buf, nepFlag)
	buf = append(buf, addrHash...)
	buf = append(buf, encrypted...)

	if len(buf) != nep2Len {
		return s, fmt.Errorf("%w: invalid buffer length: expecting %d bytes got %d", ErrCrypto, nep2Len, len(buf))
	}

	return base58.CheckEncode(buf), nil
}

// NEP2Decrypt decrypts an encrypted key using the given passphrase
// under the NEP-2 standard. A wrong passphrase is detected by comparing
// the address hash of the resulting key with the one stored in the
// encrypted key, ErrWrongPassword is returned in this case.
func NEP2Decrypt(key, passphrase string, params ScryptParams) (*PrivateKey, error) {
	b, err := base58.CheckDecode(key)
	if err != nil {
		return nil, err
	}
	if err := validateNEP2Format(b); err != nil {
		return nil, err
	}

	addrHash := b[3:7]
	// Normalize the passphrase according to the NFC standard.
	phraseNorm := norm.NFC.Bytes([]byte(passphrase))
	defer slice.Clean(phraseNorm)
	derivedKey, err := DeriveKey(phraseNorm, addrHash, params)
	if err != nil {
		return nil, err
	}
	defer slice.Clean(derivedKey)

	derivedKey1 := derivedKey[:32]
	derivedKey2 := derivedKey[32:]
	encryptedBytes := b[7:]

	decrypted, err := aesDecrypt(encryptedBytes, derivedKey2)
	if err != nil {
		return nil, err
	}
	defer slice.Clean(decrypted)

	privBytes := xor(decrypted, derivedKey1)
	defer slice.Clean(privBytes)

	// Rebuild the private key.
	privKey, err := NewPrivateKeyFromBytes(privBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPassword, err)
	}

	if !compareAddressHash(privKey, addrHash) {
		privKey.Destroy()
		return nil, ErrWrongPassword
	}

	return privKey, nil
}

// NEP2Salt returns the address hash stored in the NEP-2 encrypted key, it
// doesn't need a passphrase.
func NEP2Salt(key string) ([]byte, error) {
	b, err := base58.CheckDecode(key)
	if err != nil {
		return nil, err
	}
	if err := validateNEP2Format(b); err != nil {
		return nil, err
	}
	return bytes.Clone(b[3:7]), nil
}

func compareAddressHash(priv *PrivateKey, inhash []byte) bool {
	address := priv.Address()
	addrHash := hash.Checksum([]byte(address))
	return bytes.Equal(addrHash, inhash)
}

func validateNEP2Format(b []byte) error {
	if len(b) != nep2Len {
		return fmt.Errorf("%w: invalid length: expecting %d got %d", ErrNEP2Format, nep2Len, len(b))
	}
	if b[0] != nepHeader[0] {
		return fmt.Errorf("%w: invalid byte sequence: expecting 0x%02x got 0x%02x", ErrNEP2Format, nepHeader[0], b[0])
	}
	if b[1] != nepHeader[1] {
		return fmt.Errorf("%w: invalid byte sequence: expecting 0x%02x got 0x%02x", ErrNEP2Format, nepHeader[1], b[1])
	}
	if b[2] != nepFlag {
		return fmt.Errorf("%w: invalid byte sequence: expecting 0x%02x got 0x%02x", ErrNEP2Format, nepFlag, b[2])
	}
	return nil
}

func xor(a, b []byte) []byte {
	if len(a) != len(b) {
		panic("cannot XOR non equal length arrays")
	}
	dst := make([]byte, len(a))
	for i := 0; i < len(dst); i++ {
		dst[i] = a[i] ^ b[i]
	}
	return dst
}

// aesEncrypt encrypts a 32-byte private key mask with AES-256 in ECB mode,
// i.e. two 16-byte blocks are processed independently without padding.
// It's NEP-2 specific and is not suitable for any other data.
func aesEncrypt(src, key []byte) ([]byte, error) {
	if len(src) != privKeyLen {
		return nil, fmt.Errorf("%w: AES input must be %d bytes, got %d", ErrCrypto, privKeyLen, len(src))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	out := make([]byte, privKeyLen)
	block.Encrypt(out[:aes.BlockSize], src[:aes.BlockSize])
	block.Encrypt(out[aes.BlockSize:], src[aes.BlockSize:])
	return out, nil
}

// aesDecrypt is the reverse of aesEncrypt.
func aesDecrypt(crypted, key []byte) ([]byte, error) {
	if len(crypted) != privKeyLen {
		return nil, fmt.Errorf("%w: AES input must be %d bytes, got %d", ErrCrypto, privKeyLen, len(crypted))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	out := make([]byte, privKeyLen)
	block.Decrypt(out[:aes.BlockSize], crypted[:aes.BlockSize])
	block.Decrypt(out[aes.BlockSize:], crypted[aes.BlockSize:])
	return out, nil
}
