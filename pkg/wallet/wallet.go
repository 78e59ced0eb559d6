package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-keystore/pkg/config/netmode"
	"github.com/nspcc-dev/neo-keystore/pkg/core/transaction"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-keystore/pkg/encoding/address"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
)

const (
	// The current version of neo-keystore wallet implementations.
	walletVersion = "1.0"
)

// Wallet represents a NEO (NEP-2, NEP-6) compliant wallet.
type Wallet struct {
	// Name of the wallet, it's optional.
	Name string `json:"name"`

	// Version of the wallet, used for later upgrades.
	Version string `json:"version"`

	// A list of accounts which describes the details of each account
	// in the wallet.
	Accounts []*Account `json:"accounts"`

	Scrypt keys.ScryptParams `json:"scrypt"`

	// Extra metadata can be used for storing arbitrary data.
	// This field can be empty, it's kept as is.
	Extra json.RawMessage `json:"extra"`

	// Path where the wallet file is located..
	path string
}

// NewWallet creates a new NEO wallet at the given location.
func NewWallet(location string) (*Wallet, error) {
	w := newWallet(location)
	return w, w.SavePretty()
}

// NewInMemoryWallet creates a new NEO wallet without linking to the read file on file system.
// If wallet required to be written to the file system, [Wallet.SetPath] should be used to set the path.
func NewInMemoryWallet() *Wallet {
	return newWallet("")
}

// NewWalletFromFile creates a Wallet from the given wallet file path.
func NewWalletFromFile(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet file: %w", err)
	}
	wall, err := NewWalletFromBytes(data)
	if err != nil {
		return nil, err
	}
	wall.path = path
	return wall, nil
}

// NewWalletFromBytes creates a Wallet from the given NEP-6 JSON. The wallet
// isn't linked to any file, see [Wallet.SetPath].
func NewWalletFromBytes(data []byte) (*Wallet, error) {
	wall := &Wallet{}
	if err := json.Unmarshal(data, wall); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedWallet, err)
	}
	if err := wall.validate(); err != nil {
		return nil, err
	}
	if len(wall.Accounts) != 0 && wall.defaultAccount() == nil {
		wall.Accounts[0].Default = true
	}
	return wall, nil
}

func newWallet(path string) *Wallet {
	return &Wallet{
		Version:  walletVersion,
		Accounts: []*Account{},
		Scrypt:   keys.NEP2ScryptParams(),
		path:     path,
	}
}

// validate checks NEP-6 invariants of the wallet read from JSON.
func (w *Wallet) validate() error {
	if w.Version == "" {
		return fmt.Errorf("%w: no version", ErrMalformedWallet)
	}
	if w.Version != walletVersion {
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, w.Version)
	}
	if err := w.Scrypt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedWallet, err)
	}
	var (
		defaults int
		seen     = make(map[string]struct{}, len(w.Accounts))
	)
	for i, acc := range w.Accounts {
		if acc == nil {
			return fmt.Errorf("%w: account #%d is null", ErrMalformedWallet, i)
		}
		if err := acc.validate(); err != nil {
			return fmt.Errorf("%w: account #%d: %w", ErrMalformedWallet, i, err)
		}
		if _, ok := seen[acc.Address]; ok {
			return fmt.Errorf("%w: %w: %s", ErrMalformedWallet, ErrDuplicateAddress, acc.Address)
		}
		seen[acc.Address] = struct{}{}
		if acc.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%w: %d default accounts", ErrMalformedWallet, defaults)
	}
	return nil
}

// validate checks that the account address matches its contract and key.
func (a *Account) validate() error {
	h, err := address.StringToUint160(a.Address)
	if err != nil {
		return err
	}
	if a.Contract != nil && a.Contract.ScriptHash() != h {
		return fmt.Errorf("address %s doesn't match contract script hash", a.Address)
	}
	if a.EncryptedWIF != "" {
		salt, err := keys.NEP2Salt(a.EncryptedWIF)
		if err != nil {
			return err
		}
		if a.isSignatureContract() && !bytes.Equal(salt, hash.Checksum([]byte(a.Address))) {
			return fmt.Errorf("key doesn't belong to address %s", a.Address)
		}
	}
	return nil
}

// CreateAccount generates a new account for the end user and encrypts
// the private key with the provided passphrase.
func (w *Wallet) CreateAccount(name, passphrase string) (*Account, error) {
	acc, err := NewAccount()
	if err != nil {
		return nil, err
	}
	return acc, w.addEncrypted(acc, name, passphrase)
}

// ImportWIF adds an account for the key in the WIF form encrypting it with
// the provided passphrase.
func (w *Wallet) ImportWIF(wif, name, passphrase string) (*Account, error) {
	acc, err := NewAccountFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return acc, w.addEncrypted(acc, name, passphrase)
}

// ImportNEP2 adds an account for the NEP-2 encrypted key, the passphrase is
// checked and the key is stored as is. The account stays unlocked.
func (w *Wallet) ImportNEP2(key, name, passphrase string) (*Account, error) {
	acc, err := NewAccountFromEncryptedWIF(key, passphrase, w.Scrypt)
	if err != nil {
		return nil, err
	}
	acc.Label = name
	if err := w.AddAccount(acc); err != nil {
		acc.Close()
		return nil, err
	}
	return acc, nil
}

func (w *Wallet) addEncrypted(acc *Account, name, passphrase string) error {
	acc.Label = name
	if err := acc.Encrypt(passphrase, w.Scrypt); err != nil {
		acc.Close()
		return err
	}
	if err := w.AddAccount(acc); err != nil {
		acc.Close()
		return err
	}
	return nil
}

// AddKeyPair creates an account for the key pair and adds it to the wallet.
// The account is unlocked and has no NEP-2 form until it's encrypted, such
// wallet can't be saved.
func (w *Wallet) AddKeyPair(priv *keys.PrivateKey, label string) (*Account, error) {
	acc := NewAccountFromPrivateKey(priv)
	acc.Label = label
	if err := w.AddAccount(acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// AddAccount adds an existing Account to the wallet. The first account added
// becomes the default one, a new default account resets the flag of the
// previous one.
func (w *Wallet) AddAccount(acc *Account) error {
	for _, a := range w.Accounts {
		if a.Address == acc.Address {
			return fmt.Errorf("%w: %s", ErrDuplicateAddress, acc.Address)
		}
	}
	if len(w.Accounts) == 0 {
		acc.Default = true
	} else if acc.Default {
		for _, a := range w.Accounts {
			a.Default = false
		}
	}
	w.Accounts = append(w.Accounts, acc)
	return nil
}

// RemoveAccount removes an Account with the specified addr
// from the wallet, its key is destroyed.
func (w *Wallet) RemoveAccount(addr string) error {
	for i, acc := range w.Accounts {
		if acc.Address == addr {
			acc.Close()
			copy(w.Accounts[i:], w.Accounts[i+1:])
			w.Accounts[len(w.Accounts)-1] = nil
			w.Accounts = w.Accounts[:len(w.Accounts)-1]
			if acc.Default && len(w.Accounts) != 0 {
				w.Accounts[0].Default = true
			}
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
}

// SetDefault makes the account with the given script hash the default one.
func (w *Wallet) SetDefault(h util.Uint160) error {
	acc := w.GetAccount(h)
	if acc == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, address.Uint160ToString(h))
	}
	for _, a := range w.Accounts {
		a.Default = false
	}
	acc.Default = true
	return nil
}

// UnlockAccount decrypts the key of the account with the given script hash,
// the account can sign after that.
func (w *Wallet) UnlockAccount(h util.Uint160, passphrase string) error {
	acc := w.GetAccount(h)
	if acc == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, address.Uint160ToString(h))
	}
	return acc.Decrypt(passphrase, w.Scrypt)
}

// LockAccount destroys the decrypted key of the account with the given
// script hash.
func (w *Wallet) LockAccount(h util.Uint160) error {
	acc := w.GetAccount(h)
	if acc == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, address.Uint160ToString(h))
	}
	acc.Close()
	return nil
}

// EncryptAll encrypts keys of all unlocked accounts with the given passphrase
// replacing their NEP-2 forms.
func (w *Wallet) EncryptAll(passphrase string) error {
	for _, acc := range w.Accounts {
		if !acc.CanSign() {
			continue
		}
		if err := acc.Encrypt(passphrase, w.Scrypt); err != nil {
			return err
		}
	}
	return nil
}

// ChangePassword re-encrypts the key of the account with the given script
// hash. The old passphrase must decrypt the current key.
func (w *Wallet) ChangePassword(h util.Uint160, oldPass, newPass string) error {
	acc := w.GetAccount(h)
	if acc == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, address.Uint160ToString(h))
	}
	if acc.EncryptedWIF == "" {
		return ErrWatchOnly
	}
	wasUnlocked := acc.CanSign()
	if err := acc.Decrypt(oldPass, w.Scrypt); err != nil {
		return err
	}
	err := acc.Encrypt(newPass, w.Scrypt)
	if !wasUnlocked {
		acc.Close()
	}
	return err
}

// SignTx signs the unsigned transaction with accounts of the given signers
// and returns witnesses in the same order. All signer accounts must be
// unlocked.
func (w *Wallet) SignTx(net netmode.Magic, unsigned []byte, signers []util.Uint160) ([]*transaction.Witness, error) {
	witnesses := make([]*transaction.Witness, 0, len(signers))
	for _, h := range signers {
		acc := w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address.Uint160ToString(h))
		}
		wit, err := acc.SignTx(net, unsigned)
		if err != nil {
			return nil, err
		}
		witnesses = append(witnesses, wit)
	}
	return witnesses, nil
}

// Path returns the location of the wallet on the filesystem.
func (w *Wallet) Path() string {
	return w.path
}

// SetPath sets the location of the wallet on the filesystem.
func (w *Wallet) SetPath(path string) {
	w.path = path
}

// Save saves the wallet data to the file located at the path that was either provided
// via [NewWalletFromFile] constructor or via [Wallet.SetPath]. Decrypted keys
// are never written, every account holding a key must have its NEP-2 form.
func (w *Wallet) Save() error {
	data, err := w.JSON()
	if err != nil {
		return err
	}

	return w.writeRaw(data)
}

// SavePretty saves the wallet in a beautiful JSON.
func (w *Wallet) SavePretty() error {
	if err := w.checkEncrypted(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}

	return w.writeRaw(data)
}

// writeRaw replaces the wallet file atomically: data goes to a temporary
// file in the same directory which is then renamed over the target.
func (w *Wallet) writeRaw(data []byte) error {
	if w.path == "" {
		return ErrPathIsEmpty
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), filepath.Base(w.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("unable to create temporary wallet file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpName, w.path)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("unable to write wallet file: %w", err)
	}
	return nil
}

// JSON outputs a pretty JSON representation of the wallet.
func (w *Wallet) JSON() ([]byte, error) {
	if err := w.checkEncrypted(); err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (w *Wallet) checkEncrypted() error {
	for _, acc := range w.Accounts {
		if acc.CanSign() && acc.EncryptedWIF == "" {
			return fmt.Errorf("%w: %s", ErrUnencryptedKey, acc.Address)
		}
	}
	return nil
}

// Close closes all Wallet accounts making them incapable of signing anything
// (unless they're decrypted again). It's not doing anything to the underlying
// wallet file.
func (w *Wallet) Close() {
	for _, acc := range w.Accounts {
		acc.Close()
	}
}

// GetAccount returns an account corresponding to the provided scripthash.
func (w *Wallet) GetAccount(h util.Uint160) *Account {
	for _, acc := range w.Accounts {
		if acc.ScriptHash() == h {
			return acc
		}
	}

	return nil
}

// GetChangeAddress returns the default address to send transaction's change to.
func (w *Wallet) GetChangeAddress() util.Uint160 {
	if acc := w.defaultAccount(); acc != nil {
		return acc.ScriptHash()
	}
	if len(w.Accounts) != 0 {
		return w.Accounts[0].ScriptHash()
	}
	return util.Uint160{}
}

func (w *Wallet) defaultAccount() *Account {
	for _, acc := range w.Accounts {
		if acc.Default {
			return acc
		}
	}
	return nil
}
