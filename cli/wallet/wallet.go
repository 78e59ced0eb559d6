/*
Package wallet implements 'wallet' CLI command that manages NEP-6 wallets:
creates them, imports and exports keys and signs transactions.
*/
package wallet

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-keystore/cli/flags"
	"github.com/nspcc-dev/neo-keystore/cli/input"
	"github.com/nspcc-dev/neo-keystore/cli/options"
	"github.com/nspcc-dev/neo-keystore/pkg/config"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-keystore/pkg/encoding/address"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
	"github.com/nspcc-dev/neo-keystore/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// nep2KeyLen is the length of Base58Check-encoded NEP-2 key.
const nep2KeyLen = 58

var (
	errNoPath           = errors.New("wallet path is mandatory and should be passed using (--wallet, -w) flags")
	errNoTx             = errors.New("transaction is mandatory and should be passed using --tx flag")
	errNoAddress        = errors.New("address is mandatory and should be passed using (--address, -a) flags")
	errNoWIF            = errors.New("key is mandatory and should be passed using --wif flag")
	errNoDefaultAccount = errors.New("wallet has no accounts")
	errCancelled        = errors.New("cancelled")
)

var (
	walletPathFlag = cli.StringFlag{
		Name:  "wallet, w",
		Usage: "Target location of the wallet file.",
	}
	decryptFlag = cli.BoolFlag{
		Name:  "decrypt, d",
		Usage: "Decrypt encrypted keys.",
	}
	addressFlag = flags.AddressFlag{
		Name:  "address, a",
		Usage: "Address of the account to use.",
	}
)

// NewCommands returns 'wallet' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "wallet",
		Usage: "create, open and manage a NEP-6 wallet",
		Subcommands: []cli.Command{
			{
				Name:      "init",
				Usage:     "create a new empty wallet",
				UsageText: "init -w path [-a]",
				Action:    initWallet,
				Flags: []cli.Flag{
					walletPathFlag,
					cli.BoolFlag{
						Name:  "account, a",
						Usage: "Create a new account",
					},
				},
			},
			{
				Name:      "create",
				Usage:     "add an account to the existing wallet",
				UsageText: "create -w wallet [--wallet-config path]",
				Action:    addAccount,
				Flags:     walletFlags(),
			},
			{
				Name:      "dump",
				Usage:     "check and dump an existing wallet",
				UsageText: "dump -w wallet [--wallet-config path] [-d]",
				Action:    dumpWallet,
				Flags:     walletFlags(decryptFlag),
			},
			{
				Name:      "dump-keys",
				Usage:     "dump public keys for account",
				UsageText: "dump-keys -w wallet [--wallet-config path] [-a address]",
				Action:    dumpKeys,
				Flags:     walletFlags(addressFlag),
			},
			{
				Name:      "export",
				Usage:     "export keys for address",
				UsageText: "export -w wallet [--wallet-config path] [--decrypt] [<address>]",
				Description: `Prints a key for the given account to the standard output. It uses NEP-2
   encrypted format by default (the way NEP-6 wallets store it) or WIF format if
   --decrypt is given. In the latter case the key is decrypted with the account
   password. The default account is used if no address is given.
`,
				Action: exportKeys,
				Flags:  walletFlags(decryptFlag),
			},
			{
				Name:      "import",
				Usage:     "import WIF or NEP-2 key",
				UsageText: "import -w wallet [--wallet-config path] --wif <wif> [--name <account_name>]",
				Description: `Imports the key into the wallet. WIF keys are encrypted with a new
   password. NEP-2 keys are stored as is, their password is checked.
`,
				Action: importWallet,
				Flags: walletFlags(
					cli.StringFlag{
						Name:  "wif",
						Usage: "WIF or NEP-2 key to import",
					},
					cli.StringFlag{
						Name:  "name, n",
						Usage: "Optional account name",
					},
				),
			},
			{
				Name:      "remove",
				Usage:     "remove an account from the wallet",
				UsageText: "remove -w wallet [--wallet-config path] [--force] --address <addr>",
				Action:    removeAccount,
				Flags: walletFlags(
					addressFlag,
					cli.BoolFlag{
						Name:  "force",
						Usage: "Do not ask for a confirmation",
					},
				),
			},
			{
				Name:      "change-password",
				Usage:     "change password for accounts",
				UsageText: "change-password -w wallet [-a address]",
				Description: `Changes the password for the account specified by the address or for all
   accounts of the wallet if no address is given. All affected accounts must
   share the same old password.
`,
				Action: changePassword,
				Flags:  walletFlags(addressFlag),
			},
			{
				Name:      "sign",
				Usage:     "sign an unsigned transaction",
				UsageText: "sign -w wallet [--wallet-config path] [-a address] [--magic magic] --tx <hex>",
				Description: `Signs hex-encoded unsigned transaction with the key of the given account
   (or the default one) and prints the resulting witness as JSON. The
   network magic is taken from the configuration unless --magic is given.
`,
				Action: signTx,
				Flags: walletFlags(
					addressFlag,
					options.Magic,
					cli.StringFlag{
						Name:  "tx",
						Usage: "Hex-encoded unsigned transaction",
					},
				),
			},
		},
	}}
}

// walletFlags returns wallet location flags followed by fs.
func walletFlags(fs ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, options.Wallet...), fs...)
}

// getConfigAndLogger reads the configuration and makes a logger for command.
func getConfigAndLogger(ctx *cli.Context) (config.ApplicationConfiguration, *zap.Logger, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return config.ApplicationConfiguration{}, nil, err
	}
	log, err := options.HandleLoggingParams(options.IsDebug(ctx), cfg.ApplicationConfiguration)
	if err != nil {
		return config.ApplicationConfiguration{}, nil, err
	}
	return cfg.ApplicationConfiguration, log, nil
}

func openWallet(ctx *cli.Context) (*wallet.Wallet, *string, config.ApplicationConfiguration, *zap.Logger, error) {
	cfg, log, err := getConfigAndLogger(ctx)
	if err != nil {
		return nil, nil, cfg, nil, err
	}
	wall, pass, err := options.GetWalletFromContext(ctx, cfg)
	if err != nil {
		_ = log.Sync()
		return nil, nil, cfg, nil, err
	}
	log.Debug("wallet opened", zap.String("path", wall.Path()), zap.Int("accounts", len(wall.Accounts)))
	return wall, pass, cfg, log, nil
}

func saveWallet(wall *wallet.Wallet, log *zap.Logger) error {
	if err := wall.Save(); err != nil {
		return err
	}
	log.Debug("wallet saved", zap.String("path", wall.Path()))
	return nil
}

func initWallet(ctx *cli.Context) error {
	path := ctx.String("wallet")
	if len(path) == 0 {
		return cli.NewExitError(errNoPath, 1)
	}
	cfg, log, err := getConfigAndLogger(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	wall := wallet.NewInMemoryWallet()
	wall.Scrypt = cfg.Scrypt
	wall.SetPath(path)
	if ctx.Bool("account") {
		if err := createAccount(wall, nil); err != nil {
			return cli.NewExitError(err, 1)
		}
		defer wall.Close()
	}
	if err := wall.SavePretty(); err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Info("wallet created", zap.String("path", path))
	fmt.Fprintf(ctx.App.Writer, "Wallet successfully created, file location is %s\n", wall.Path())
	return nil
}

func addAccount(ctx *cli.Context) error {
	wall, pass, _, log, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer wall.Close()

	if err := createAccount(wall, pass); err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := saveWallet(wall, log); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, wall.Accounts[len(wall.Accounts)-1].Address)
	return nil
}

func createAccount(wall *wallet.Wallet, pass *string) error {
	name, err := input.ReadLine("Enter the name of the account > ")
	if err != nil {
		return fmt.Errorf("failed to read account name: %w", err)
	}
	phrase, err := readNewPassword(pass)
	if err != nil {
		return err
	}
	_, err = wall.CreateAccount(name, phrase)
	return err
}

func readNewPassword(pass *string) (string, error) {
	if pass != nil {
		return *pass, nil
	}
	return input.ReadNewPassword("Enter passphrase > ")
}

func readPassword(pass *string, prompt string) (string, error) {
	if pass != nil {
		return *pass, nil
	}
	phrase, err := input.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	return phrase, nil
}

func dumpWallet(ctx *cli.Context) error {
	wall, pass, _, log, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer wall.Close()

	if ctx.Bool("decrypt") {
		phrase, err := readPassword(pass, "Enter wallet password > ")
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		for _, acc := range wall.Accounts {
			if acc.EncryptedWIF == "" {
				continue
			}
			// Just testing the decryption here.
			if err := wall.UnlockAccount(acc.ScriptHash(), phrase); err != nil {
				return cli.NewExitError(fmt.Errorf("account %s: %w", acc.Address, err), 1)
			}
			log.Debug("account decrypted", zap.String("address", acc.Address))
		}
	}
	return fmtPrintWallet(ctx, wall)
}

func fmtPrintWallet(ctx *cli.Context, wall *wallet.Wallet) error {
	b, err := json.MarshalIndent(wall, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}

func dumpKeys(ctx *cli.Context) error {
	wall, _, _, log, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	accounts := wall.Accounts
	addrFlag := ctx.Generic("address").(*flags.Address)
	if addrFlag.IsSet {
		acc := wall.GetAccount(addrFlag.Uint160())
		if acc == nil {
			return cli.NewExitError(fmt.Errorf("%w: %s", wallet.ErrAccountNotFound, addrFlag), 1)
		}
		accounts = []*wallet.Account{acc}
	}
	for i, acc := range accounts {
		if i != 0 {
			fmt.Fprintln(ctx.App.Writer)
		}
		pub := acc.PublicKey()
		if pub == nil {
			fmt.Fprintf(ctx.App.Writer, "%s (watch-only):\n", acc.Address)
			continue
		}
		fmt.Fprintf(ctx.App.Writer, "%s (simple signature contract):\n", acc.Address)
		fmt.Fprintln(ctx.App.Writer, pub.StringCompressed())
	}
	return nil
}

// getAccount returns the account for the address given as the first argument
// or the default one.
func getAccount(wall *wallet.Wallet, s string) (util.Uint160, error) {
	if s != "" {
		return flags.ParseAddress(s)
	}
	if len(wall.Accounts) == 0 {
		return util.Uint160{}, errNoDefaultAccount
	}
	return wall.GetChangeAddress(), nil
}

func exportKeys(ctx *cli.Context) error {
	wall, pass, _, log, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer wall.Close()

	if ctx.NArg() > 1 {
		return cli.NewExitError(fmt.Errorf("only one address can be specified"), 1)
	}
	h, err := getAccount(wall, ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	acc := wall.GetAccount(h)
	if acc == nil {
		return cli.NewExitError(fmt.Errorf("%w: %s", wallet.ErrAccountNotFound, address.Uint160ToString(h)), 1)
	}
	if acc.EncryptedWIF == "" {
		return cli.NewExitError(fmt.Errorf("%w: %s", wallet.ErrWatchOnly, acc.Address), 1)
	}
	if !ctx.Bool("decrypt") {
		fmt.Fprintln(ctx.App.Writer, acc.EncryptedWIF)
		return nil
	}
	acc, err = options.GetUnlockedAccount(wall, h, pass)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, acc.PrivateKey().WIF())
	return nil
}

func importWallet(ctx *cli.Context) error {
	key := ctx.String("wif")
	if key == "" {
		return cli.NewExitError(errNoWIF, 1)
	}
	wall, pass, _, log, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer wall.Close()

	var acc *wallet.Account
	if len(key) == nep2KeyLen && strings.HasPrefix(key, "6P") {
		phrase, err := readPassword(pass, "Enter the key password > ")
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		acc, err = wall.ImportNEP2(key, ctx.String("name"), phrase)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	} else {
		if _, err := keys.NewPrivateKeyFromWIF(key); err != nil {
			return cli.NewExitError(err, 1)
		}
		phrase, err := readNewPassword(pass)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		acc, err = wall.ImportWIF(key, ctx.String("name"), phrase)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	if err := saveWallet(wall, log); err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Info("account imported", zap.String("address", acc.Address))
	fmt.Fprintln(ctx.App.Writer, acc.Address)
	return nil
}

func removeAccount(ctx *cli.Context) error {
	wall, _, _, log, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	addrFlag := ctx.Generic("address").(*flags.Address)
	if !addrFlag.IsSet {
		return cli.NewExitError(errNoAddress, 1)
	}
	acc := wall.GetAccount(addrFlag.Uint160())
	if acc == nil {
		return cli.NewExitError(fmt.Errorf("%w: %s", wallet.ErrAccountNotFound, addrFlag), 1)
	}

	if !ctx.Bool("force") {
		fmt.Fprintf(ctx.App.Writer, "Account %s will be removed. This action is irreversible.\n", acc.Address)
		if ok := askForConsent(); !ok {
			return cli.NewExitError(errCancelled, 1)
		}
	}

	if err := wall.RemoveAccount(acc.Address); err != nil {
		return cli.NewExitError(fmt.Errorf("error on remove: %w", err), 1)
	}
	if err := saveWallet(wall, log); err != nil {
		return cli.NewExitError(fmt.Errorf("error while saving wallet: %w", err), 1)
	}
	log.Info("account removed", zap.String("address", acc.Address))
	return nil
}

func askForConsent() bool {
	response, err := input.ReadLine("Are you sure? [y/N]: ")
	if err == nil {
		response = strings.ToLower(strings.TrimSpace(response))
		if response == "y" || response == "yes" {
			return true
		}
	}
	return false
}

func changePassword(ctx *cli.Context) error {
	wall, pass, _, log, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer wall.Close()

	var hashes []util.Uint160
	addrFlag := ctx.Generic("address").(*flags.Address)
	if addrFlag.IsSet {
		acc := wall.GetAccount(addrFlag.Uint160())
		if acc == nil {
			return cli.NewExitError(fmt.Errorf("%w: %s", wallet.ErrAccountNotFound, addrFlag), 1)
		}
		hashes = append(hashes, acc.ScriptHash())
	} else {
		for _, acc := range wall.Accounts {
			if acc.EncryptedWIF != "" {
				hashes = append(hashes, acc.ScriptHash())
			}
		}
	}
	if len(hashes) == 0 {
		return cli.NewExitError(errNoDefaultAccount, 1)
	}

	oldPass, err := readPassword(pass, "Enter password > ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	newPass, err := input.ReadNewPassword("Enter new password > ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, h := range hashes {
		if err := wall.ChangePassword(h, oldPass, newPass); err != nil {
			return cli.NewExitError(fmt.Errorf("unable to change password for %s: %w", address.Uint160ToString(h), err), 1)
		}
	}
	if err := saveWallet(wall, log); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func signTx(ctx *cli.Context) error {
	txHex := ctx.String("tx")
	if txHex == "" {
		return cli.NewExitError(errNoTx, 1)
	}
	tx, err := hex.DecodeString(strings.TrimPrefix(txHex, "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid transaction: %w", err), 1)
	}
	wall, pass, cfg, log, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()
	defer wall.Close()

	magic, err := options.GetMagic(ctx, cfg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	var h util.Uint160
	addrFlag := ctx.Generic("address").(*flags.Address)
	if addrFlag.IsSet {
		h = addrFlag.Uint160()
	} else if h, err = getAccount(wall, ""); err != nil {
		return cli.NewExitError(err, 1)
	}
	acc, err := options.GetUnlockedAccount(wall, h, pass)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Debug("account unlocked", zap.String("address", acc.Address))

	wit, err := acc.SignTx(magic, tx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Info("transaction signed", zap.String("address", acc.Address), zap.Stringer("network", magic))
	b, err := json.MarshalIndent(wit, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}
