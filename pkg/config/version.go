package config

// Version is the version of the keystore, set at build time. Binaries built
// without ldflags report "dev".
var Version = "dev"
