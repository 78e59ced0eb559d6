package wallet

import (
	"bytes"
	"crypto/elliptic"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-keystore/pkg/config/netmode"
	"github.com/nspcc-dev/neo-keystore/pkg/core/transaction"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-keystore/pkg/encoding/address"
	"github.com/nspcc-dev/neo-keystore/pkg/io"
	"github.com/nspcc-dev/neo-keystore/pkg/smartcontract"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
	"github.com/nspcc-dev/neo-keystore/pkg/vm/emit"
)

// Account represents a NEO account. It holds the private and the public key
// along with some metadata.
type Account struct {
	// NEO private key, only present for unlocked accounts.
	privateKey *keys.PrivateKey

	// NEO public address.
	Address string `json:"address"`

	// Encrypted WIF of the account also known as the key.
	EncryptedWIF string `json:"key"`

	// Label is a label the user had made for this account.
	Label string `json:"label"`

	// Contract is a Contract object which describes the details of the contract.
	// This field can be null (for watch-only address).
	Contract *Contract `json:"contract"`

	// Indicates whether the account is locked by the user.
	// The client shouldn't spend the funds in a locked account.
	Locked bool `json:"lock"`

	// Indicates whether the account is the default change account.
	Default bool `json:"isDefault"`
}

// Contract represents a subset of the smartcontract to embed in the
// Account so it's NEP-6 compliant.
type Contract struct {
	// Script of the contract deployed on the blockchain.
	Script []byte `json:"script"`

	// A list of parameters used deploying this contract.
	Parameters []ContractParam `json:"parameters"`

	// Indicates whether the contract has been deployed to the blockchain.
	Deployed bool `json:"deployed"`
}

// ContractParam is a descriptor of a contract parameter
// containing type and optional name.
type ContractParam struct {
	Name string                  `json:"name"`
	Type smartcontract.ParamType `json:"type"`
}

// ScriptHash returns the hash of contract's script.
func (c Contract) ScriptHash() util.Uint160 {
	return hash.Hash160(c.Script)
}

// NewAccount creates a new Account with a random generated PrivateKey.
func NewAccount() (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// CanSign returns true when account is not locked and has a decrypted private
// key inside, so it's ready to create real signatures.
func (a *Account) CanSign() bool {
	return a.privateKey != nil
}

// SignTx signs the serialized unsigned transaction for the given network
// and returns the witness: an invocation script pushing the signature and
// the account's verification script. The digest follows Neo's signing
// context, sha256 of the LE network magic followed by the transaction hash.
func (a *Account) SignTx(net netmode.Magic, unsigned []byte) (*transaction.Witness, error) {
	if !a.CanSign() {
		return nil, fmt.Errorf("%w: %s", ErrAccountLocked, a.Address)
	}
	sig := a.privateKey.SignHashable(uint32(net), transaction.Unsigned(unsigned))

	buf := io.NewBufBinWriter()
	emit.Bytes(buf.BinWriter, sig)
	if buf.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, buf.Err)
	}
	updateSignaturesMetric()
	return &transaction.Witness{
		InvocationScript:   buf.Bytes(),
		VerificationScript: a.GetVerificationScript(),
	}, nil
}

// GetVerificationScript returns account's verification script.
func (a *Account) GetVerificationScript() []byte {
	if a.Contract != nil {
		return bytes.Clone(a.Contract.Script)
	}
	if a.privateKey != nil {
		return a.privateKey.PublicKey().GetVerificationScript()
	}
	return nil
}

// Decrypt decrypts the EncryptedWIF with the given passphrase returning error
// if anything goes wrong. After the decryption Account can be used to sign
// things unless it's locked. Don't decrypt the key unless you want to sign
// something and don't forget to call Close after use for maximum safety.
func (a *Account) Decrypt(passphrase string, scrypt keys.ScryptParams) error {
	if a.EncryptedWIF == "" {
		return ErrWatchOnly
	}

	start := time.Now()
	priv, err := keys.NEP2Decrypt(a.EncryptedWIF, passphrase, scrypt)
	updateDecryptMetric(err, start)
	if err != nil {
		return err
	}
	if a.isSignatureContract() && priv.GetScriptHash() != a.ScriptHash() {
		priv.Destroy()
		return fmt.Errorf("%w: decrypted key doesn't match account %s", keys.ErrInvalidKey, a.Address)
	}
	a.Close()
	a.privateKey = priv
	return nil
}

// Encrypt encrypts the wallet's PrivateKey with the given passphrase
// under the NEP-2 standard.
func (a *Account) Encrypt(passphrase string, scrypt keys.ScryptParams) error {
	if a.privateKey == nil {
		return fmt.Errorf("%w: %s", ErrAccountLocked, a.Address)
	}
	start := time.Now()
	wif, err := keys.NEP2Encrypt(a.privateKey, passphrase, scrypt)
	updateEncryptMetric(start)
	if err != nil {
		return err
	}
	a.EncryptedWIF = wif
	return nil
}

// PrivateKey returns private key corresponding to the account if it's unlocked.
// Please be very careful when using it, do not copy its contents and do not
// keep a pointer to it unless you absolutely need to. Most of the time you can
// use other methods (like ScriptHash or SignTx) that will do the same thing
// without the need for a private key.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// PublicKey returns the public key associated with the private key
// corresponding to the account. For locked accounts it's taken from the
// signature contract script, nil is returned when it's not possible.
func (a *Account) PublicKey() *keys.PublicKey {
	if a.privateKey != nil {
		return a.privateKey.PublicKey()
	}
	if a.Contract == nil {
		return nil
	}
	b, ok := smartcontract.ParseSignatureContract(a.Contract.Script)
	if !ok {
		return nil
	}
	pub, err := keys.NewPublicKeyFromBytes(b, elliptic.P256())
	if err != nil {
		return nil
	}
	return pub
}

// ScriptHash returns the script hash (account) that the Account.Address is
// derived from. It never returns an error, so if this Account has an invalid
// Address you'll just get a zero script hash.
func (a *Account) ScriptHash() util.Uint160 {
	if a.Contract != nil {
		return a.Contract.ScriptHash()
	}
	h, _ := address.StringToUint160(a.Address)
	return h
}

// Close cleans up the private key used by Account and disassociates it from
// Account. The Account can no longer sign anything after this call, but
// Decrypt can make it usable again.
func (a *Account) Close() {
	if a.privateKey == nil {
		return
	}
	a.privateKey.Destroy()
	a.privateKey = nil
}

// NewAccountFromWIF creates a new Account from the given WIF.
func NewAccountFromWIF(wif string) (*Account, error) {
	privKey, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(privKey), nil
}

// NewAccountFromEncryptedWIF creates a new Account from the given encrypted WIF.
func NewAccountFromEncryptedWIF(wif string, pass string, scrypt keys.ScryptParams) (*Account, error) {
	start := time.Now()
	priv, err := keys.NEP2Decrypt(wif, pass, scrypt)
	updateDecryptMetric(err, start)
	if err != nil {
		return nil, err
	}

	a := NewAccountFromPrivateKey(priv)
	a.EncryptedWIF = wif

	return a, nil
}

// NewAccountFromPrivateKey creates a wallet from the given PrivateKey.
func NewAccountFromPrivateKey(p *keys.PrivateKey) *Account {
	pubKey := p.PublicKey()

	a := &Account{
		privateKey: p,
		Address:    pubKey.Address(),
		Contract: &Contract{
			Script:     pubKey.GetVerificationScript(),
			Parameters: signatureContractParams(),
		},
	}

	return a
}

// isSignatureContract reports whether the account is (or is supposed to be)
// controlled by a single key.
func (a *Account) isSignatureContract() bool {
	return a.Contract == nil || smartcontract.IsSignatureContract(a.Contract.Script)
}

// signatureContractParams returns the only parameter of a single-signature
// verification script.
func signatureContractParams() []ContractParam {
	return []ContractParam{{Name: "signature", Type: smartcontract.SignatureType}}
}
