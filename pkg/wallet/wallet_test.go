package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-keystore/internal/keytestcases"
	"github.com/nspcc-dev/neo-keystore/pkg/config/netmode"
	"github.com/nspcc-dev/neo-keystore/pkg/core/transaction"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-keystore/pkg/encoding/address"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	walletTemplate = "testWallet"
)

func TestNewWallet(t *testing.T) {
	wallet := checkWalletConstructor(t)
	require.NotNil(t, wallet)
	require.Equal(t, walletVersion, wallet.Version)
	require.Equal(t, keys.NEP2ScryptParams(), wallet.Scrypt)

	w, err := NewWalletFromFile(wallet.Path())
	require.NoError(t, err)
	require.Empty(t, w.Accounts)
	require.Equal(t, wallet.Scrypt, w.Scrypt)
}

func TestNewWalletFromFile_Negative_NoFile(t *testing.T) {
	_, err := NewWalletFromFile(filepath.Join(t.TempDir(), walletTemplate))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewWalletFromFile_Malformed(t *testing.T) {
	for name, expected := range map[string]error{
		"not_json.json":            ErrMalformedWallet,
		"no_version.json":          ErrMalformedWallet,
		"two_defaults.json":        ErrMalformedWallet,
		"duplicate.json":           ErrDuplicateAddress,
		"address_mismatch.json":    ErrMalformedWallet,
		"key_mismatch.json":        ErrMalformedWallet,
		"bad_script.json":          ErrMalformedWallet,
		"bad_scrypt.json":          keys.ErrKDFParameter,
		"huge_scrypt.json":         keys.ErrKDFParameter,
		"unsupported_version.json": ErrUnsupportedVersion,
	} {
		t.Run(name, func(t *testing.T) {
			w, err := NewWalletFromFile(filepath.Join("testdata", name))
			require.ErrorIs(t, err, expected)
			require.Nil(t, w)
		})
	}
	_, err := NewWalletFromFile(filepath.Join("testdata", "duplicate.json"))
	require.ErrorIs(t, err, ErrMalformedWallet)
	_, err = NewWalletFromFile(filepath.Join("testdata", "bad_scrypt.json"))
	require.ErrorIs(t, err, ErrMalformedWallet)
}

func TestNewWalletFromBytes(t *testing.T) {
	_, err := NewWalletFromBytes([]byte(`{"version":"1.0","scrypt":{"n":2,"r":1,"p":1},"accounts":[null]}`))
	require.ErrorIs(t, err, ErrMalformedWallet)

	w, err := NewWalletFromBytes([]byte(`{"version":"1.0","scrypt":{"n":2,"r":1,"p":1},"accounts":[]}`))
	require.NoError(t, err)
	require.Equal(t, lightScrypt, w.Scrypt)
	require.ErrorIs(t, w.Save(), ErrPathIsEmpty)
}

func TestWalletFromTestdata(t *testing.T) {
	w, err := NewWalletFromFile(filepath.Join("testdata", "wallet2.json"))
	require.NoError(t, err)
	require.Equal(t, "test", w.Name)
	require.Len(t, w.Accounts, 3)
	require.JSONEq(t, `{"tokens":[]}`, string(w.Extra))

	for i, tc := range keytestcases.Arr[:3] {
		acc := w.Accounts[i]
		require.Equal(t, tc.Address, acc.Address)
		require.Equal(t, tc.EncryptedWif, acc.EncryptedWIF)
		require.False(t, acc.CanSign())
		require.Equal(t, tc.PublicKey, acc.PublicKey().StringCompressed())
	}

	watch, err := NewWalletFromFile(filepath.Join("testdata", "watch_only.json"))
	require.NoError(t, err)
	require.Len(t, watch.Accounts, 1)
	require.True(t, watch.Accounts[0].Default)
	require.True(t, watch.Accounts[0].Locked)
	require.Nil(t, watch.Accounts[0].Contract)
	require.ErrorIs(t, watch.UnlockAccount(watch.Accounts[0].ScriptHash(), "pass"), ErrWatchOnly)
}

func TestUnlockAccount(t *testing.T) {
	w, err := NewWalletFromFile(filepath.Join("testdata", "wallet1.json"))
	require.NoError(t, err)

	tc := keytestcases.Arr[1]
	h, err := address.StringToUint160(tc.Address)
	require.NoError(t, err)

	require.ErrorIs(t, w.UnlockAccount(util.Uint160{1, 2, 3}, tc.Passphrase), ErrAccountNotFound)
	require.ErrorIs(t, w.UnlockAccount(h, "wrong"), ErrWrongPassword)
	require.False(t, w.GetAccount(h).CanSign())

	require.NoError(t, w.UnlockAccount(h, tc.Passphrase))
	acc := w.GetAccount(h)
	require.True(t, acc.CanSign())
	require.Equal(t, tc.PrivateKey, acc.PrivateKey().String())

	// Unlocked accounts are saved in their encrypted form only.
	w.SetPath(filepath.Join(t.TempDir(), "wallet.json"))
	require.NoError(t, w.Save())
	w2, err := NewWalletFromFile(w.Path())
	require.NoError(t, err)
	require.False(t, w2.GetAccount(h).CanSign())
	require.Equal(t, tc.EncryptedWif, w2.GetAccount(h).EncryptedWIF)

	require.ErrorIs(t, w.LockAccount(util.Uint160{1, 2, 3}), ErrAccountNotFound)
	require.NoError(t, w.LockAccount(h))
	require.False(t, acc.CanSign())
	_, err = acc.SignTx(netmode.UnitTestNet, []byte{1})
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestCreateAccount(t *testing.T) {
	wallet := checkWalletConstructor(t)
	wallet.Scrypt = lightScrypt

	acc, err := wallet.CreateAccount("testName", "testPass")
	require.NoError(t, err)
	accounts := wallet.Accounts
	require.Len(t, accounts, 1)
	require.Equal(t, acc, accounts[0])
	require.Equal(t, "testName", acc.Label)
	require.True(t, acc.Default)
	require.True(t, acc.CanSign())
	require.NotEmpty(t, acc.EncryptedWIF)

	acc.Close()
	require.NoError(t, wallet.UnlockAccount(acc.ScriptHash(), "testPass"))
}

func TestImport(t *testing.T) {
	tc := keytestcases.Arr[0]

	t.Run("WIF", func(t *testing.T) {
		w := NewInMemoryWallet()
		w.Scrypt = lightScrypt
		acc, err := w.ImportWIF(tc.Wif, "wif", "pass")
		require.NoError(t, err)
		require.Equal(t, tc.Address, acc.Address)
		require.Equal(t, "wif", acc.Label)
		acc.Close()
		require.NoError(t, acc.Decrypt("pass", w.Scrypt))

		_, err = w.ImportWIF(tc.Wif, "again", "pass")
		require.ErrorIs(t, err, ErrDuplicateAddress)
		require.Len(t, w.Accounts, 1)

		_, err = w.ImportWIF(keytestcases.Arr[4].Wif, "bad", "pass")
		require.Error(t, err)
	})
	t.Run("NEP-2", func(t *testing.T) {
		w := NewInMemoryWallet()
		acc, err := w.ImportNEP2(tc.EncryptedWif, "nep2", tc.Passphrase)
		require.NoError(t, err)
		require.Equal(t, tc.Address, acc.Address)
		require.Equal(t, tc.EncryptedWif, acc.EncryptedWIF)
		require.True(t, acc.CanSign())

		_, err = w.ImportNEP2(keytestcases.Arr[1].EncryptedWif, "nep2", "wrong")
		require.ErrorIs(t, err, ErrWrongPassword)
		require.Len(t, w.Accounts, 1)
	})
}

func TestAddKeyPair(t *testing.T) {
	w := checkWalletConstructor(t)
	w.Scrypt = lightScrypt

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	acc, err := w.AddKeyPair(priv, "label")
	require.NoError(t, err)
	require.True(t, acc.Default)
	require.Equal(t, priv.Address(), acc.Address)

	_, err = w.AddKeyPair(priv, "again")
	require.ErrorIs(t, err, ErrDuplicateAddress)

	require.ErrorIs(t, w.Save(), ErrUnencryptedKey)
	require.ErrorIs(t, w.SavePretty(), ErrUnencryptedKey)
	_, err = w.JSON()
	require.ErrorIs(t, err, ErrUnencryptedKey)

	require.NoError(t, w.EncryptAll("pass"))
	require.NoError(t, w.Save())

	w2, err := NewWalletFromFile(w.Path())
	require.NoError(t, err)
	require.NoError(t, w2.UnlockAccount(acc.ScriptHash(), "pass"))
	require.Equal(t, priv.Bytes(), w2.Accounts[0].PrivateKey().Bytes())
}

func TestAddAccount(t *testing.T) {
	wallet := checkWalletConstructor(t)

	accs := make([]*Account, 3)
	for i := range accs {
		acc, err := NewAccount()
		require.NoError(t, err)
		accs[i] = acc
		require.NoError(t, wallet.AddAccount(acc))
	}
	require.Len(t, wallet.Accounts, 3)
	require.True(t, accs[0].Default)
	require.False(t, accs[1].Default)

	require.ErrorIs(t, wallet.AddAccount(&Account{Address: accs[1].Address}), ErrDuplicateAddress)

	newDefault, err := NewAccount()
	require.NoError(t, err)
	newDefault.Default = true
	require.NoError(t, wallet.AddAccount(newDefault))
	require.False(t, accs[0].Default)
	require.Equal(t, newDefault.ScriptHash(), wallet.GetChangeAddress())

	require.ErrorIs(t, wallet.RemoveAccount("abc"), ErrAccountNotFound)
	require.Len(t, wallet.Accounts, 4)
	require.NoError(t, wallet.RemoveAccount(accs[1].Address))
	require.Len(t, wallet.Accounts, 3)
	require.False(t, accs[1].CanSign())
	require.Nil(t, wallet.GetAccount(accs[1].ScriptHash()))

	// Default account removal makes the first one default.
	require.NoError(t, wallet.RemoveAccount(newDefault.Address))
	require.True(t, accs[0].Default)
}

func TestSetDefault(t *testing.T) {
	w, err := NewWalletFromFile(filepath.Join("testdata", "wallet2.json"))
	require.NoError(t, err)

	require.ErrorIs(t, w.SetDefault(util.Uint160{1}), ErrAccountNotFound)
	require.NoError(t, w.SetDefault(w.Accounts[2].ScriptHash()))
	require.Equal(t, w.Accounts[2].ScriptHash(), w.GetChangeAddress())
	require.False(t, w.Accounts[1].Default)
}

func TestPath(t *testing.T) {
	wallet := checkWalletConstructor(t)

	path := wallet.Path()
	require.NotEmpty(t, path)

	require.Empty(t, NewInMemoryWallet().Path())
}

func TestSave(t *testing.T) {
	wallet := checkWalletConstructor(t)
	wallet.Scrypt = lightScrypt

	acc, err := wallet.CreateAccount("first", "pass")
	require.NoError(t, err)
	acc.Close()

	errForSave := wallet.Save()
	require.NoError(t, errForSave)

	openedWallet, err := NewWalletFromFile(wallet.path)
	require.NoError(t, err)
	require.Equal(t, wallet.Accounts, openedWallet.Accounts)

	t.Run("change and rewrite", func(t *testing.T) {
		acc, err := openedWallet.CreateAccount("test", "pass")
		require.NoError(t, err)
		acc.Close()
		require.NoError(t, openedWallet.SavePretty())

		w2, err := NewWalletFromFile(openedWallet.path)
		require.NoError(t, err)
		require.Equal(t, 2, len(w2.Accounts))
		require.NoError(t, w2.Accounts[1].Decrypt("pass", w2.Scrypt))
		w2.Accounts[1].Close()
		require.Equal(t, openedWallet.Accounts, w2.Accounts)
	})
	t.Run("no temporary files", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(wallet.path))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, walletTemplate, entries[0].Name())
	})
	t.Run("in memory", func(t *testing.T) {
		require.ErrorIs(t, NewInMemoryWallet().Save(), ErrPathIsEmpty)
	})
	t.Run("missing directory", func(t *testing.T) {
		w := NewInMemoryWallet()
		w.SetPath(filepath.Join(t.TempDir(), "nonexistent", "wallet.json"))
		require.Error(t, w.Save())
	})
}

func TestExtraIsPreserved(t *testing.T) {
	w, err := NewWalletFromFile(filepath.Join("testdata", "wallet2.json"))
	require.NoError(t, err)

	w.SetPath(filepath.Join(t.TempDir(), "wallet.json"))
	require.NoError(t, w.Save())

	w2, err := NewWalletFromFile(w.Path())
	require.NoError(t, err)
	require.JSONEq(t, string(w.Extra), string(w2.Extra))
	require.Equal(t, w.Accounts, w2.Accounts)
}

func TestJSONMarshallUnmarshal(t *testing.T) {
	wallet := checkWalletConstructor(t)

	bytes, err := wallet.JSON()
	require.NoError(t, err)
	require.NotNil(t, bytes)

	unmarshalledWallet := &Wallet{}
	errUnmarshal := json.Unmarshal(bytes, unmarshalledWallet)

	require.NoError(t, errUnmarshal)
	require.Equal(t, wallet.Version, unmarshalledWallet.Version)
	require.Equal(t, wallet.Accounts, unmarshalledWallet.Accounts)
	require.Equal(t, wallet.Scrypt, unmarshalledWallet.Scrypt)
}

func checkWalletConstructor(t *testing.T) *Wallet {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, walletTemplate)
	wallet, err := NewWallet(file)
	require.NoError(t, err)
	return wallet
}

func TestWallet_GetAccount(t *testing.T) {
	wallet := checkWalletConstructor(t)
	accounts := []*Account{
		{
			Contract: &Contract{
				Script: []byte{0, 1, 2, 3},
			},
		},
		{
			Contract: &Contract{
				Script: []byte{3, 2, 1, 0},
			},
		},
	}

	for _, acc := range accounts {
		acc.Address = address.Uint160ToString(acc.Contract.ScriptHash())
		require.NoError(t, wallet.AddAccount(acc))
	}

	for i, acc := range accounts {
		h := acc.Contract.ScriptHash()
		assert.Equal(t, acc, wallet.GetAccount(h), "can't get %d account", i)
	}
}

func TestWalletGetChangeAddress(t *testing.T) {
	w1, err := NewWalletFromFile("testdata/wallet1.json")
	require.NoError(t, err)
	sh := w1.GetChangeAddress()
	// No default address, the first one is used.
	require.Equal(t, "NPTmAHDxo6Pkyic8Nvu3kwyXoYJCvcCB6i", address.Uint160ToString(sh))
	require.True(t, w1.Accounts[0].Default)
	w2, err := NewWalletFromFile("testdata/wallet2.json")
	require.NoError(t, err)
	sh = w2.GetChangeAddress()
	// Default address.
	require.Equal(t, "NMBfzaEq2c5zodiNbLPoohVENARMbJim1r", address.Uint160ToString(sh))

	require.Equal(t, util.Uint160{}, NewInMemoryWallet().GetChangeAddress())
}

func TestChangePassword(t *testing.T) {
	w := NewInMemoryWallet()
	w.Scrypt = lightScrypt
	acc, err := w.CreateAccount("acc", "old")
	require.NoError(t, err)
	h := acc.ScriptHash()
	oldKey := acc.EncryptedWIF
	acc.Close()

	require.ErrorIs(t, w.ChangePassword(util.Uint160{}, "old", "new"), ErrAccountNotFound)
	require.ErrorIs(t, w.ChangePassword(h, "wrong", "new"), ErrWrongPassword)
	require.Equal(t, oldKey, acc.EncryptedWIF)

	require.NoError(t, w.ChangePassword(h, "old", "new"))
	require.NotEqual(t, oldKey, acc.EncryptedWIF)
	require.False(t, acc.CanSign())
	require.ErrorIs(t, w.UnlockAccount(h, "old"), ErrWrongPassword)
	require.NoError(t, w.UnlockAccount(h, "new"))

	// Unlocked accounts stay unlocked.
	require.NoError(t, w.ChangePassword(h, "new", "newer"))
	require.True(t, acc.CanSign())
}

func TestWalletSignTx(t *testing.T) {
	w := NewInMemoryWallet()
	w.Scrypt = lightScrypt
	accs := make([]*Account, 3)
	for i := range accs {
		acc, err := w.CreateAccount("", "pass")
		require.NoError(t, err)
		accs[i] = acc
	}
	tx := []byte("unsigned transaction")

	signers := []util.Uint160{accs[2].ScriptHash(), accs[0].ScriptHash()}
	wits, err := w.SignTx(netmode.PrivNet, tx, signers)
	require.NoError(t, err)
	require.Len(t, wits, 2)
	for i, wit := range wits {
		require.Equal(t, signers[i], wit.ScriptHash())
		require.NoError(t, wit.VerifySignature(uint32(netmode.PrivNet), transaction.Unsigned(tx)))
	}

	_, err = w.SignTx(netmode.PrivNet, tx, []util.Uint160{{1, 2, 3}})
	require.ErrorIs(t, err, ErrAccountNotFound)

	wits, err = w.SignTx(netmode.PrivNet, tx, nil)
	require.NoError(t, err)
	require.Empty(t, wits)

	w.Close()
	for _, acc := range accs {
		require.False(t, acc.CanSign())
	}
	_, err = w.SignTx(netmode.PrivNet, tx, signers)
	require.ErrorIs(t, err, ErrAccountLocked)
}
