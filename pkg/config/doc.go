/*
Package config contains the YAML configuration of the keystore: network magic
used for signing, scrypt parameters for new keys and logging settings.
*/
package config
