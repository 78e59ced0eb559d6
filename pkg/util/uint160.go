package util

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-keystore/pkg/util/slice"
)

// Uint160Size is the size of Uint160 in bytes.
const Uint160Size = 20

// Uint160 is a 20 byte long unsigned integer. It's used for script hashes,
// the raw RIPEMD-160 output is stored as is (that's the big-endian form),
// while Neo displays and serializes them in little-endian.
type Uint160 [Uint160Size]uint8

// Uint160DecodeStringLE attempts to decode the given little-endian hex
// string into a Uint160.
func Uint160DecodeStringLE(s string) (Uint160, error) {
	var u Uint160
	if len(s) != Uint160Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint160Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint160DecodeBytesLE(b)
}

// Uint160DecodeStringBE attempts to decode the given big-endian hex string
// into a Uint160.
func Uint160DecodeStringBE(s string) (Uint160, error) {
	var u Uint160
	if len(s) != Uint160Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint160Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint160DecodeBytesBE(b)
}

// Uint160DecodeBytesBE attempts to decode the given bytes into a Uint160.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected byte size of %d got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return
}

// Uint160DecodeBytesLE attempts to decode the given little-endian bytes
// into a Uint160.
func Uint160DecodeBytesLE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected byte size of %d got %d", Uint160Size, len(b))
	}
	for i := range b {
		u[Uint160Size-i-1] = b[i]
	}
	return
}

// BytesBE returns a big-endian byte representation of u.
func (u Uint160) BytesBE() []byte {
	return u[:]
}

// BytesLE returns a little-endian byte representation of u.
func (u Uint160) BytesLE() []byte {
	return slice.CopyReverse(u.BytesBE())
}

// String implements the stringer interface.
func (u Uint160) String() string {
	return u.StringBE()
}

// StringBE returns a big-endian hex representation of u.
func (u Uint160) StringBE() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringLE returns a little-endian hex representation of u.
func (u Uint160) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// Reverse returns a reversed representation of u.
func (u Uint160) Reverse() (r Uint160) {
	for i := 0; i < Uint160Size; i++ {
		r[i] = u[Uint160Size-i-1]
	}
	return
}

// Equals returns true if both Uint160 values are the same.
func (u Uint160) Equals(other Uint160) bool {
	return u == other
}

// UnmarshalJSON implements the json unmarshaller interface.
func (u *Uint160) UnmarshalJSON(data []byte) (err error) {
	var js string
	if err = json.Unmarshal(data, &js); err != nil {
		return err
	}
	js = strings.TrimPrefix(js, "0x")
	*u, err = Uint160DecodeStringLE(js)
	return err
}

// MarshalJSON implements the json marshaller interface.
func (u Uint160) MarshalJSON() ([]byte, error) {
	r := make([]byte, 3+Uint160Size*2+1)
	copy(r, `"0x`)
	r[len(r)-1] = '"'
	hex.Encode(r[3:], u.BytesLE())
	return r, nil
}
