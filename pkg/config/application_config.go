package config

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-keystore/pkg/config/netmode"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"go.uber.org/zap/zapcore"
)

// ApplicationConfiguration config specific to the keystore.
type ApplicationConfiguration struct {
	LogLevel string `yaml:"LogLevel"`
	LogPath  string `yaml:"LogPath"`
	// Magic is the network signatures are made for.
	Magic netmode.Magic `yaml:"Magic"`
	// Scrypt contains KDF parameters for newly encrypted keys.
	Scrypt keys.ScryptParams `yaml:"Scrypt"`
	// UnlockWallet is a wallet used by non-interactive commands.
	UnlockWallet Wallet `yaml:"UnlockWallet"`
}

// Validate checks ApplicationConfiguration for internal consistency and returns
// an error if any invalid settings are found.
func (a *ApplicationConfiguration) Validate() error {
	if a.Magic == 0 {
		return errors.New("network magic is not set")
	}
	if err := a.Scrypt.Validate(); err != nil {
		return err
	}
	if a.LogLevel != "" {
		if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
			return fmt.Errorf("invalid LogLevel: %w", err)
		}
	}
	return nil
}
