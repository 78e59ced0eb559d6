/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-keystore/cli/input"
	"github.com/nspcc-dev/neo-keystore/pkg/config"
	"github.com/nspcc-dev/neo-keystore/pkg/config/netmode"
	"github.com/nspcc-dev/neo-keystore/pkg/encoding/address"
	"github.com/nspcc-dev/neo-keystore/pkg/io"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
	"github.com/nspcc-dev/neo-keystore/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Wallet is a set of flags used for wallet operations.
var Wallet = []cli.Flag{cli.StringFlag{
	Name:  "wallet, w",
	Usage: "wallet to use; conflicts with --wallet-config flag",
}, cli.StringFlag{
	Name:  "wallet-config",
	Usage: "path to wallet config to use to get the wallet and its password; conflicts with --wallet flag"},
}

// Magic is a flag for commands that sign data for some network.
var Magic = cli.StringFlag{
	Name:  "magic",
	Usage: "network magic number or name (mainnet, testnet, privnet, unit_testnet), overrides the configuration",
}

// ConfigFile is a flag for commands that use keystore configuration.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the keystore configuration file (mainnet defaults are used if not given)",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

var errNoWallet = errors.New("no wallet parameter found, specify it with the '--wallet' or '-w' flag or specify wallet config file with the '--wallet-config' flag")
var errConflictingWalletFlags = errors.New("--wallet flag conflicts with --wallet-config flag, please, provide one of them to specify wallet location")

// GetConfigFromContext reads the configuration file given with --config-file
// flag or returns the default configuration.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	configFile := ctx.GlobalString("config-file")
	if configFile == "" {
		configFile = ctx.String("config-file")
	}
	if configFile == "" {
		return config.Default(), nil
	}
	return config.LoadFile(configFile)
}

// IsDebug checks for --debug flag anywhere in the command line.
func IsDebug(ctx *cli.Context) bool {
	return ctx.GlobalBool("debug") || ctx.Bool("debug")
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	return cc.Build()
}

// GetMagic returns the network magic given with --magic flag or the one
// from configuration.
func GetMagic(ctx *cli.Context, cfg config.ApplicationConfiguration) (netmode.Magic, error) {
	if s := ctx.String("magic"); s != "" {
		return netmode.Parse(s)
	}
	return cfg.Magic, nil
}

// GetWalletFromContext opens the wallet given with --wallet or --wallet-config
// flags, UnlockWallet configuration section is used when there are none.
// The password is returned if it's known from the configuration.
func GetWalletFromContext(ctx *cli.Context, cfg config.ApplicationConfiguration) (*wallet.Wallet, *string, error) {
	wPath := ctx.String("wallet")
	walletConfigPath := ctx.String("wallet-config")
	if len(wPath) != 0 && len(walletConfigPath) != 0 {
		return nil, nil, errConflictingWalletFlags
	}
	var pass *string
	switch {
	case len(walletConfigPath) != 0:
		wcfg, err := ReadWalletConfig(walletConfigPath)
		if err != nil {
			return nil, nil, err
		}
		wPath = wcfg.Path
		pass = &wcfg.Password
	case len(wPath) == 0 && len(cfg.UnlockWallet.Path) != 0:
		wPath = cfg.UnlockWallet.Path
		pass = &cfg.UnlockWallet.Password
	case len(wPath) == 0:
		return nil, nil, errNoWallet
	}

	wall, err := wallet.NewWalletFromFile(wPath)
	if err != nil {
		return nil, nil, err
	}
	return wall, pass, nil
}

// GetUnlockedAccount returns account from wallet, address and uses pass to unlock specified account if given.
// If the password is not given, then it is requested from user.
func GetUnlockedAccount(wall *wallet.Wallet, addr util.Uint160, pass *string) (*wallet.Account, error) {
	acc := wall.GetAccount(addr)
	if acc == nil {
		return nil, fmt.Errorf("wallet contains no account for '%s'", address.Uint160ToString(addr))
	}

	if acc.CanSign() {
		return acc, nil
	}

	if pass == nil {
		rawPass, err := input.ReadPassword(
			fmt.Sprintf("Enter account %s password > ", address.Uint160ToString(addr)))
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		pass = &rawPass
	}
	err := wall.UnlockAccount(addr, *pass)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// ReadWalletConfig reads wallet config from the given path.
func ReadWalletConfig(configPath string) (*config.Wallet, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet config: %w", err)
	}

	cfg := &config.Wallet{}

	err = yaml.Unmarshal(configData, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet config YAML: %w", err)
	}
	return cfg, nil
}
