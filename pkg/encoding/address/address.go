/*
Package address implements conversion of script hashes to/from Neo N3
addresses.
*/
package address

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-keystore/pkg/encoding/base58"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
)

// NEO3Prefix is the first byte of an address for Neo N3.
const NEO3Prefix byte = 0x35

var (
	// ErrInvalidPrefix is returned for addresses with a version byte other
	// than NEO3Prefix.
	ErrInvalidPrefix = errors.New("wrong address prefix")
	// ErrInvalidLength is returned for addresses with a payload of a wrong size.
	ErrInvalidLength = errors.New("wrong address length")
)

// Uint160ToString returns the "NEO address" from the given Uint160.
func Uint160ToString(u util.Uint160) string {
	return base58.VersionedCheckEncode(NEO3Prefix, u.BytesBE())
}

// StringToUint160 attempts to decode the given NEO address string
// into a Uint160.
func StringToUint160(s string) (u util.Uint160, err error) {
	prefix, b, err := base58.VersionedCheckDecode(s)
	if err != nil {
		return u, err
	}
	if prefix != NEO3Prefix {
		return u, fmt.Errorf("%w: 0x%02x", ErrInvalidPrefix, prefix)
	}
	if len(b) != util.Uint160Size {
		return u, fmt.Errorf("%w: %d", ErrInvalidLength, len(b))
	}
	return util.Uint160DecodeBytesBE(b)
}
