package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/neo-keystore/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-keystore/pkg/encoding/address"
	"github.com/nspcc-dev/neo-keystore/pkg/io"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
	"github.com/nspcc-dev/neo-keystore/pkg/vm/emit"
)

const (
	// coordLen is the number of bytes in serialized X or Y coordinate.
	coordLen = 32
	// SignatureLen is the length of a standard signature for 256-bit EC key.
	SignatureLen = 64
	// PublicKeyCompressedLen is the length of a compressed encoding.
	PublicKeyCompressedLen = 33
	// PublicKeyUncompressedLen is the length of an uncompressed encoding.
	PublicKeyUncompressedLen = 65

	// keyCacheSize is the number of decoded secp256r1 keys kept in memory.
	keyCacheSize = 1024
)

// keyCache is a cache of decoded secp256r1 keys, decompression of Y is
// relatively expensive and wallets tend to decode the same keys many times.
var keyCache *lru.Cache

func init() {
	var err error
	keyCache, err = lru.New(keyCacheSize)
	if err != nil {
		panic(err)
	}
}

// PublicKeys is a list of public keys.
type PublicKeys []*PublicKey

// Contains checks whether the passed param is contained in PublicKeys.
func (keys PublicKeys) Contains(pKey *PublicKey) bool {
	for _, key := range keys {
		if key.Equal(pKey) {
			return true
		}
	}
	return false
}

// PublicKey represents a public key and provides a high level
// API around the X/Y point.
type PublicKey ecdsa.PublicKey

// Equal returns true in case public keys are equal.
func (p *PublicKey) Equal(key *PublicKey) bool {
	return bytes.Equal(p.Bytes(), key.Bytes())
}

// NewPublicKeyFromString returns a public key created from the
// given hex string public key representation in compressed form.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return NewPublicKeyFromBytes(b, elliptic.P256())
}

// NewPublicKeyFromBytes returns a public key created from b using the given
// EC. Compressed secp256r1 keys are served from a process-wide LRU cache,
// so the result is shared and must not be modified.
func NewPublicKeyFromBytes(b []byte, curve elliptic.Curve) (*PublicKey, error) {
	var cacheable = curve == elliptic.P256() && len(b) == PublicKeyCompressedLen
	if cacheable {
		if k, ok := keyCache.Get(string(b)); ok {
			return k.(*PublicKey), nil
		}
	}
	pubKey := new(PublicKey)
	pubKey.Curve = curve
	if err := pubKey.DecodeBytes(b); err != nil {
		return nil, err
	}
	if cacheable {
		keyCache.Add(string(b), pubKey)
	}
	return pubKey, nil
}

// getBytes serializes X and Y using compressed or uncompressed format.
func (p *PublicKey) getBytes(compressed bool) []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}

	var resLen = 1 + coordLen
	if !compressed {
		resLen += coordLen
	}
	var res = make([]byte, resLen)
	var prefix byte

	if compressed {
		if p.Y.Bit(0) == 0 {
			prefix = 0x02
		} else {
			prefix = 0x03
		}
	} else {
		prefix = 0x04
		p.Y.FillBytes(res[1+coordLen:])
	}
	res[0] = prefix
	p.X.FillBytes(res[1 : 1+coordLen])

	return res
}

// Bytes returns byte array representation of the public key in compressed
// form (33 bytes with 0x02 or 0x03 prefix, except infinity which is always 0).
func (p *PublicKey) Bytes() []byte {
	return p.getBytes(true)
}

// UncompressedBytes returns byte array representation of the public key in
// uncompressed form (65 bytes with 0x04 prefix, except infinity which is
// always 0).
func (p *PublicKey) UncompressedBytes() []byte {
	return p.getBytes(false)
}

// NewPublicKeyFromASN1 returns a NEO PublicKey from the ASN.1 serialized key.
func NewPublicKeyFromASN1(data []byte) (*PublicKey, error) {
	pubkey, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pk, ok := pubkey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: given bytes aren't ECDSA public key", ErrInvalidKey)
	}
	result := PublicKey(*pk)
	return &result, nil
}

// decodeCompressedY performs decompression of Y coordinate for the given X and Y's least significant bit.
// We use here a short-form Weierstrass curve (https://www.hyperelliptic.org/EFD/g1p/auto-shortw.html)
// y² = x³ + ax + b. Two types of elliptic curves are supported:
// 1. Secp256k1 (Koblitz curve): y² = x³ + b,
// 2. Secp256r1 (Random curve): y² = x³ - 3x + b.
// To decode a compressed curve point, we perform the following operation: y = sqrt(x³ + ax + b mod p)
// where `p` denotes the order of the underlying curve field.
func decodeCompressedY(x *big.Int, ylsb uint, curve elliptic.Curve) (*big.Int, error) {
	var a *big.Int
	switch curve.(type) {
	case *secp256k1.KoblitzCurve:
		a = big.NewInt(0)
	default:
		a = big.NewInt(3)
	}
	cp := curve.Params()
	xCubed := new(big.Int).Exp(x, big.NewInt(3), cp.P)
	aX := new(big.Int).Mul(x, a)
	aX.Mod(aX, cp.P)
	ySquared := new(big.Int).Sub(xCubed, aX)
	ySquared.Add(ySquared, cp.B)
	ySquared.Mod(ySquared, cp.P)
	y := new(big.Int).ModSqrt(ySquared, cp.P)
	if y == nil {
		return nil, errors.New("error computing Y for compressed point")
	}
	if y.Bit(0) != ylsb {
		y.Neg(y)
		y.Mod(y, cp.P)
	}
	return y, nil
}

// DecodeBytes decodes a PublicKey from the given slice of bytes.
func (p *PublicKey) DecodeBytes(data []byte) error {
	l := len(data)
	if !((l == 1 && data[0] == 0) ||
		(l == PublicKeyCompressedLen && (data[0] == 0x02 || data[0] == 0x03)) ||
		(l == PublicKeyUncompressedLen && data[0] == 0x04)) {
		return fmt.Errorf("%w: invalid key size/prefix", ErrInvalidKey)
	}
	b := io.NewBinReaderFromBuf(data)
	p.DecodeBinary(b)
	return b.Err
}

// DecodeBinary decodes a PublicKey from the given BinReader using information
// about the EC curve to decompress Y point. Secp256r1 is a default value for EC curve.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	var prefix uint8
	var x, y *big.Int
	var err error

	prefix = r.ReadB()
	if r.Err != nil {
		return
	}

	if p.Curve == nil {
		p.Curve = elliptic.P256()
	}
	curve := p.Curve
	curveParams := p.Params()
	// Infinity
	switch prefix {
	case 0x00:
		// noop, initialized to nil
	case 0x02, 0x03:
		// Compressed public keys
		xbytes := make([]byte, coordLen)
		r.ReadBytes(xbytes)
		if r.Err != nil {
			return
		}
		x = new(big.Int).SetBytes(xbytes)
		ylsb := uint(prefix & 0x1)
		y, err = decodeCompressedY(x, ylsb, curve)
		if err != nil {
			r.Err = fmt.Errorf("%w: %v", ErrInvalidKey, err)
			return
		}
	case 0x04:
		xbytes := make([]byte, coordLen)
		ybytes := make([]byte, coordLen)
		r.ReadBytes(xbytes)
		r.ReadBytes(ybytes)
		if r.Err != nil {
			return
		}
		x = new(big.Int).SetBytes(xbytes)
		y = new(big.Int).SetBytes(ybytes)
		if !curve.IsOnCurve(x, y) {
			r.Err = fmt.Errorf("%w: encoded point is not on the curve", ErrInvalidKey)
			return
		}
	default:
		r.Err = fmt.Errorf("%w: invalid prefix %d", ErrInvalidKey, prefix)
		return
	}
	if prefix != 0x00 && (x.Cmp(curveParams.P) >= 0 || y.Cmp(curveParams.P) >= 0) {
		r.Err = fmt.Errorf("%w: encoded point is not correct (X or Y is bigger than P)", ErrInvalidKey)
		return
	}
	p.X, p.Y = x, y
}

// EncodeBinary encodes a PublicKey to the given BinWriter.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// GetVerificationScript returns NEO VM bytecode with CHECKSIG command for the
// public key.
func (p *PublicKey) GetVerificationScript() []byte {
	buf := io.NewBufBinWriter()
	emit.Bytes(buf.BinWriter, p.Bytes())
	emit.Syscall(buf.BinWriter, interopnames.SystemCryptoCheckSig)

	return buf.Bytes()
}

// GetScriptHash returns a Hash160 of verification script for the key.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns a base58-encoded NEO-specific address based on the key hash.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash())
}

// Verify returns true if the signature is valid and corresponds
// to the hash and public key. It never panics, malformed signatures and
// keys are just not valid.
func (p *PublicKey) Verify(signature []byte, hash []byte) bool {
	if p == nil || p.X == nil || p.Y == nil || len(signature) != SignatureLen {
		return false
	}
	var pk = ecdsa.PublicKey(*p)
	if pk.Curve == nil {
		pk.Curve = elliptic.P256()
	}
	if !pk.Curve.IsOnCurve(pk.X, pk.Y) {
		return false
	}
	rBytes := new(big.Int).SetBytes(signature[0:32])
	sBytes := new(big.Int).SetBytes(signature[32:64])
	return ecdsa.Verify(&pk, hash, rBytes, sBytes)
}

// VerifyHashable returns true if the signature is valid and corresponds
// to the hash and public key.
func (p *PublicKey) VerifyHashable(signature []byte, net uint32, hh hash.Hashable) bool {
	var digest = hash.NetSha256(net, hh)
	return p.Verify(signature, digest[:])
}

// IsInfinity checks if the key is infinite (null, basically).
func (p *PublicKey) IsInfinity() bool {
	return p.X == nil && p.Y == nil
}

// StringCompressed returns the hex string representation of the public key
// in its compressed form.
func (p *PublicKey) StringCompressed() string {
	return hex.EncodeToString(p.Bytes())
}

// String implements the Stringer interface.
func (p *PublicKey) String() string {
	return p.StringCompressed()
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.StringCompressed())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return errors.New("wrong format")
	}

	b := make([]byte, hex.DecodedLen(l-2))
	_, err := hex.Decode(b, data[1:l-1])
	if err != nil {
		return err
	}
	err = p.DecodeBytes(b)
	if err != nil {
		return err
	}

	return nil
}
