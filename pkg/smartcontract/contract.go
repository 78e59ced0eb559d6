package smartcontract

import (
	"bytes"
	"encoding/binary"

	"github.com/nspcc-dev/neo-keystore/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-keystore/pkg/vm/opcode"
)

// signatureScriptLen is the length of a standard signature verification
// script: PUSHDATA1 33 <key> SYSCALL <id>.
const signatureScriptLen = 2 + keys.PublicKeyCompressedLen + 1 + 4

// CreateSignatureRedeemScript creates a standard signature verification
// script for the given public key.
func CreateSignatureRedeemScript(key *keys.PublicKey) []byte {
	return key.GetVerificationScript()
}

// ParseSignatureContract parses a simple signature contract and returns
// the serialized public key it checks signatures against.
func ParseSignatureContract(script []byte) ([]byte, bool) {
	if len(script) != signatureScriptLen {
		return nil, false
	}
	if script[0] != byte(opcode.PUSHDATA1) || script[1] != keys.PublicKeyCompressedLen {
		return nil, false
	}
	var (
		key  = script[2 : 2+keys.PublicKeyCompressedLen]
		call = script[2+keys.PublicKeyCompressedLen:]
	)
	if call[0] != byte(opcode.SYSCALL) ||
		binary.LittleEndian.Uint32(call[1:]) != interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig)) {
		return nil, false
	}
	return bytes.Clone(key), true
}

// IsSignatureContract checks whether the passed script is a signature check
// contract.
func IsSignatureContract(script []byte) bool {
	_, ok := ParseSignatureContract(script)
	return ok
}
