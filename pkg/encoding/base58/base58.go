/*
Package base58 wraps generic base58 encoder with the Base58Check
functionality used by Neo addresses, WIF keys and NEP-2 strings.
*/
package base58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/hash"
)

// checksumLen is the length of Base58Check checksum suffix.
const checksumLen = 4

var (
	// ErrInvalidCharacter is returned for strings containing characters
	// outside of the Base58 alphabet (including '0', 'O', 'I' and 'l').
	ErrInvalidCharacter = errors.New("invalid base-58 character")
	// ErrChecksumMismatch is returned when the trailing checksum doesn't
	// match the data (or when there is no room for it at all).
	ErrChecksumMismatch = errors.New("invalid base-58 check string: checksum mismatch")
	// ErrMissingVersion is returned by VersionedCheckDecode for a valid
	// Base58Check string carrying an empty payload.
	ErrMissingVersion = errors.New("invalid base-58 check string: missing version byte")
)

// CheckDecode implements base58-encoded string decoding with a hash-based
// checksum check.
func CheckDecode(s string) (b []byte, err error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty string", ErrChecksumMismatch)
	}
	b, err = base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCharacter, err.Error())
	}

	if len(b) < checksumLen {
		return nil, fmt.Errorf("%w: missing checksum", ErrChecksumMismatch)
	}

	sumStart := len(b) - checksumLen
	if !bytes.Equal(hash.Checksum(b[:sumStart]), b[sumStart:]) {
		return nil, ErrChecksumMismatch
	}
	b = b[:sumStart]

	return b, nil
}

// CheckEncode encodes the given byte slice into a base58 string with a
// hash-based checksum appended to it.
func CheckEncode(b []byte) string {
	buf := make([]byte, 0, len(b)+checksumLen)
	buf = append(buf, b...)
	buf = append(buf, hash.Checksum(b)...)

	return base58.Encode(buf)
}

// VersionedCheckEncode prepends version to the payload and encodes the result
// using CheckEncode.
func VersionedCheckEncode(version byte, payload []byte) string {
	b := make([]byte, 0, 1+len(payload))
	b = append(b, version)
	b = append(b, payload...)
	return CheckEncode(b)
}

// VersionedCheckDecode is the reverse of VersionedCheckEncode, it returns the
// version byte and the payload following it.
func VersionedCheckDecode(s string) (byte, []byte, error) {
	b, err := CheckDecode(s)
	if err != nil {
		return 0, nil, err
	}
	if len(b) == 0 {
		return 0, nil, ErrMissingVersion
	}
	return b[0], b[1:], nil
}
