package config

// Wallet is a wallet info.
type Wallet struct {
	Path     string `yaml:"Path"`
	Password string `yaml:"Password"`
}
