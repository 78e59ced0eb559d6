package netmode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringer(t *testing.T) {
	tests := map[Magic]string{
		MainNet:     "mainnet",
		TestNet:     "testnet",
		PrivNet:     "privnet",
		UnitTestNet: "unit_testnet",
		0xdeadbeef:  "net 0xdeadbeef",
	}
	for b, name := range tests {
		assert.Equal(t, name, b.String())
	}
}

func TestParse(t *testing.T) {
	for _, m := range []Magic{MainNet, TestNet, PrivNet, UnitTestNet} {
		actual, err := Parse(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, actual)
	}

	m, err := Parse("860833102")
	assert.NoError(t, err)
	assert.Equal(t, MainNet, m)

	m, err = Parse("0x3554334e")
	assert.NoError(t, err)
	assert.Equal(t, TestNet, m)

	for _, bad := range []string{"", "0", "neo", "0x1ffffffff", "-1"} {
		_, err = Parse(bad)
		assert.Error(t, err, bad)
	}
}
