package keys

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-keystore/pkg/encoding/base58"
	"github.com/nspcc-dev/neo-keystore/pkg/util/slice"
)

const (
	// WIFVersion is the version used to decode and encode WIF keys.
	WIFVersion = 0x80

	// wifCompressedFlag marks a key whose public part is compressed.
	wifCompressedFlag = 0x01
)

// ErrInvalidWIF is returned for WIF strings with wrong payload layout.
var ErrInvalidWIF = errors.New("invalid WIF")

// WIF represents a wallet import format.
type WIF struct {
	// Version of the wallet import format. Default to 0x80.
	Version byte

	// Bool to determine if the WIF is compressed or not.
	Compressed bool

	// A reference to the PrivateKey which this WIF is created from.
	PrivateKey *PrivateKey

	// A string representation of the WIF.
	S string
}

// WIFEncode encodes the given private key into a WIF string.
func WIFEncode(key []byte, version byte, compressed bool) (s string, err error) {
	if version == 0x00 {
		version = WIFVersion
	}
	if len(key) != PrivateKeyLen {
		return s, fmt.Errorf("%w: invalid private key length: %d", ErrInvalidKey, len(key))
	}

	buf := make([]byte, 0, PrivateKeyLen+2)
	buf = append(buf, version)
	buf = append(buf, key...)
	if compressed {
		buf = append(buf, wifCompressedFlag)
	}

	s = base58.CheckEncode(buf)
	slice.Clean(buf)
	return
}

// WIFDecode decodes the given WIF string into a WIF struct.
func WIFDecode(wif string, version byte) (*WIF, error) {
	b, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, err
	}
	defer slice.Clean(b)

	if version == 0x00 {
		version = WIFVersion
	}
	w := &WIF{
		Version: version,
		S:       wif,
	}
	switch len(b) {
	case PrivateKeyLen + 1: // OK, uncompressed public key.
	case PrivateKeyLen + 2: // OK, compressed public key.
		// Check the compression flag.
		if b[PrivateKeyLen+1] != wifCompressedFlag {
			return nil, fmt.Errorf("%w: invalid compression flag %d expecting %d",
				ErrInvalidWIF, b[PrivateKeyLen+1], wifCompressedFlag)
		}
		w.Compressed = true
	default:
		return nil, fmt.Errorf("%w: invalid length %d, expecting 33 or 34", ErrInvalidWIF, len(b))
	}

	if b[0] != version {
		return nil, fmt.Errorf("%w: invalid version got %d, expected %d", ErrInvalidWIF, b[0], version)
	}

	// Derive the PrivateKey.
	w.PrivateKey, err = NewPrivateKeyFromBytes(b[1 : PrivateKeyLen+1])
	if err != nil {
		return nil, err
	}

	return w, nil
}
