/*
Package transaction contains the pieces of Neo transactions a keystore deals
with: witnesses and the unsigned transaction they are produced for.
*/
package transaction

import (
	"bytes"
	"crypto/elliptic"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-keystore/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-keystore/pkg/io"
	"github.com/nspcc-dev/neo-keystore/pkg/smartcontract"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
	"github.com/nspcc-dev/neo-keystore/pkg/vm/opcode"
)

const (
	// MaxInvocationScript is the maximum length of allowed invocation
	// script. It should fit 11/21 multisignature for the committee.
	MaxInvocationScript = 1024

	// MaxVerificationScript is the maximum allowed length of verification
	// script. It should be appropriate for 11/21 multisignature committee.
	MaxVerificationScript = 1024

	// signatureInvocationLen is the length of PUSHDATA1 64 <signature>.
	signatureInvocationLen = 2 + keys.SignatureLen
)

var (
	// ErrInvalidWitness is returned for witnesses that are not a standard
	// single signature invocation/verification pair.
	ErrInvalidWitness = errors.New("invalid witness")
	// ErrInvalidSignature is returned when the witness signature doesn't
	// match the signed data.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Witness contains 2 scripts.
type Witness struct {
	InvocationScript   []byte `json:"invocation"`
	VerificationScript []byte `json:"verification"`
}

// DecodeBinary implements the Serializable interface.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = br.ReadVarBytes(MaxVerificationScript)
}

// EncodeBinary implements the Serializable interface.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// ScriptHash returns the hash of the VerificationScript.
func (w Witness) ScriptHash() util.Uint160 {
	return hash.Hash160(w.VerificationScript)
}

// Copy creates a deep copy of the Witness.
func (w Witness) Copy() Witness {
	return Witness{
		InvocationScript:   bytes.Clone(w.InvocationScript),
		VerificationScript: bytes.Clone(w.VerificationScript),
	}
}

// Signature returns the signature pushed by a standard single signature
// invocation script.
func (w Witness) Signature() ([]byte, error) {
	inv := w.InvocationScript
	if len(inv) != signatureInvocationLen || inv[0] != byte(opcode.PUSHDATA1) || inv[1] != keys.SignatureLen {
		return nil, fmt.Errorf("%w: not a signature invocation script", ErrInvalidWitness)
	}
	return inv[2:], nil
}

// VerifySignature checks that the witness is a standard single signature
// one and that its signature is valid for the hashable item in the given
// network.
func (w Witness) VerifySignature(net uint32, hh hash.Hashable) error {
	pb, ok := smartcontract.ParseSignatureContract(w.VerificationScript)
	if !ok {
		return fmt.Errorf("%w: not a signature contract", ErrInvalidWitness)
	}
	sig, err := w.Signature()
	if err != nil {
		return err
	}
	pub, err := keys.NewPublicKeyFromBytes(pb, elliptic.P256())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWitness, err)
	}
	if !pub.VerifyHashable(sig, net, hh) {
		return ErrInvalidSignature
	}
	return nil
}
