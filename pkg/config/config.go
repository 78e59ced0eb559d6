package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nspcc-dev/neo-keystore/pkg/config/netmode"
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/keys"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config file.
	DefaultConfigPath = "./config/keystore.mainnet.yml"
	// DefaultLogLevel is used when nothing is specified in the config.
	DefaultLogLevel = "info"
)

// Config top level struct representing the config
// for the keystore.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// Default returns the configuration used when no config file is given:
// MainNet magic and NEP-2 scrypt parameters.
func Default() Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			LogLevel: DefaultLogLevel,
			Magic:    netmode.MainNet,
			Scrypt:   keys.NEP2ScryptParams(),
		},
	}
}

// LoadFile loads config from the provided path. Fields missing in the file
// keep their Default values, unknown fields are an error.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	return c.ApplicationConfiguration.Validate()
}
