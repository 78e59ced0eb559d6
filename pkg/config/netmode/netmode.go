/*
Package netmode contains network magic values signatures are bound to.
*/
package netmode

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MainNet contains magic code used in the Neo main official network.
	MainNet Magic = 0x334f454e // NEO3
	// TestNet contains magic code used in the Neo testing network.
	TestNet Magic = 0x3554334e // N3T5
	// PrivNet contains magic code usually used for Neo private networks.
	PrivNet Magic = 56753 // docker privnet
	// UnitTestNet is a stub magic code used for testing purposes.
	UnitTestNet Magic = 42
)

// Magic describes the network a signature is made for.
type Magic uint32

// String implements the stringer interface.
func (n Magic) String() string {
	switch n {
	case PrivNet:
		return "privnet"
	case TestNet:
		return "testnet"
	case MainNet:
		return "mainnet"
	case UnitTestNet:
		return "unit_testnet"
	default:
		return "net 0x" + strconv.FormatUint(uint64(n), 16)
	}
}

// Parse converts a network name (as returned by String) or a decimal/0x-hex
// number into Magic.
func Parse(s string) (Magic, error) {
	switch strings.ToLower(s) {
	case "mainnet":
		return MainNet, nil
	case "testnet":
		return TestNet, nil
	case "privnet":
		return PrivNet, nil
	case "unit_testnet":
		return UnitTestNet, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid network magic: %q", s)
	}
	return Magic(v), nil
}
