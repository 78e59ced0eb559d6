package wallet

import (
	"errors"

	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
)

var (
	// ErrMalformedWallet is returned for wallet files violating NEP-6 layout.
	ErrMalformedWallet = errors.New("malformed wallet")
	// ErrUnsupportedVersion is returned for wallets of unknown versions.
	ErrUnsupportedVersion = errors.New("unsupported wallet version")
	// ErrAccountNotFound is returned when there is no account for the given
	// script hash or address.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAddress is returned when an account with the same address
	// is already present in the wallet.
	ErrDuplicateAddress = errors.New("duplicate address")
	// ErrAccountLocked is returned when an operation needs the decrypted key,
	// but the account is not unlocked.
	ErrAccountLocked = errors.New("account is locked")
	// ErrEncodingFailure is returned when a witness can't be built.
	ErrEncodingFailure = errors.New("witness encoding failure")
	// ErrUnencryptedKey is returned on save if some account holds a key
	// without its NEP-2 form, decrypted keys are never written to disk.
	ErrUnencryptedKey = errors.New("account key is not encrypted")
	// ErrWatchOnly is returned on attempts to decrypt an account without key.
	ErrWatchOnly = errors.New("account has no encrypted key")
	// ErrPathIsEmpty appears if wallet was created without linking to file system path,
	// for instance with [NewInMemoryWallet], but [Wallet.Save] is called.
	ErrPathIsEmpty = errors.New("path is empty")
	// ErrWrongPassword is returned when the password doesn't decrypt
	// the account key.
	ErrWrongPassword = keys.ErrWrongPassword
)
