package keys

import (
	"crypto/x509"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-keystore/internal/keytestcases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivateKey(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		privKey, err := NewPrivateKeyFromHex(testCase.PrivateKey)
		if testCase.Invalid {
			assert.ErrorIs(t, err, ErrInvalidKey)
			continue
		}

		require.NoError(t, err)
		address := privKey.Address()
		assert.Equal(t, testCase.Address, address)

		wif := privKey.WIF()
		assert.Equal(t, testCase.Wif, wif)
		pubKey := privKey.PublicKey()
		assert.Equal(t, hex.EncodeToString(pubKey.Bytes()), testCase.PublicKey)
		oldD := new(big.Int).Set(privKey.D)
		privKey.Destroy()
		assert.NotEqual(t, oldD, privKey.D)
		assert.Equal(t, make([]byte, PrivateKeyLen), privKey.Bytes())
	}
}

func TestNewPrivateKeyOnCurve(t *testing.T) {
	msg := []byte{1, 2, 3}
	h := sha256Digest(msg)
	t.Run("Secp256r1", func(t *testing.T) {
		p, err := NewPrivateKey()
		require.NoError(t, err)
		require.True(t, p.PublicKey().Verify(p.Sign(msg), h[:]))
	})
	t.Run("Secp256k1", func(t *testing.T) {
		p, err := NewSecp256k1PrivateKey()
		require.NoError(t, err)
		require.True(t, p.PublicKey().Verify(p.Sign(msg), h[:]))
	})
}

func TestPrivateKeyFromWIF(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		key, err := NewPrivateKeyFromWIF(testCase.Wif)
		if testCase.Invalid {
			assert.Error(t, err)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, testCase.PrivateKey, key.String())
	}
}

func TestPrivateKeyRange(t *testing.T) {
	n := "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"
	nMinus1 := "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632550"

	_, err := NewPrivateKeyFromHex(strings.Repeat("00", PrivateKeyLen))
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = NewPrivateKeyFromHex(n)
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = NewPrivateKeyFromHex(strings.Repeat("ff", PrivateKeyLen))
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = NewPrivateKeyFromBytes(make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = NewPrivateKeyFromBytes(make([]byte, 33))
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = NewPrivateKeyFromHex("zz")
	require.ErrorIs(t, err, ErrInvalidKey)

	p, err := NewPrivateKeyFromHex(nMinus1)
	require.NoError(t, err)
	require.Equal(t, nMinus1, p.String())
}

func TestPrivateKeyFromASN1(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	der, err := x509.MarshalECPrivateKey(&priv.PrivateKey)
	require.NoError(t, err)

	actual, err := NewPrivateKeyFromASN1(der)
	require.NoError(t, err)
	require.Equal(t, priv.Bytes(), actual.Bytes())

	_, err = NewPrivateKeyFromASN1(der[:10])
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestSigning(t *testing.T) {
	// These were taken from the rfcPage:https://tools.ietf.org/html/rfc6979#page-33
	//   public key: U = xG
	//Ux = 60FED4BA255A9D31C961EB74C6356D68C049B8923B61FA6CE669622E60F29FB6
	//Uy = 7903FE1008B8BC99A41AE9E95628BC64F2F1B20C2D7E9F5177A3C294D4462299
	PrivateKey, _ := NewPrivateKeyFromHex("C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721")

	data := PrivateKey.Sign([]byte("sample"))

	// s is F7CB1C942D657C41D436C7A1B6E29F65F3E900DBB9AFF4064DC4AB2F843ACDA8
	// in the RFC, it's normalized to N-s here.
	r := "EFD48B2AACB6A8FD1140DD9CD45E81D69D2C877B56AAF991C34D0EA84EAF3716"
	s := "0834E36AD29A83BF2BC9385E491D6099C8FDF9D1ED67AA7EA5F51F93782857A9"
	assert.Equal(t, strings.ToLower(r+s), hex.EncodeToString(data))

	pub := PrivateKey.PublicKey()
	assert.Equal(t, "60fed4ba255a9d31c961eb74c6356d68c049b8923b61fa6ce669622e60f29fb6", hex.EncodeToString(pub.X.Bytes()))
	assert.Equal(t, "7903fe1008b8bc99a41ae9e95628bc64f2f1b20c2d7e9f5177a3c294d4462299", hex.EncodeToString(pub.Y.Bytes()))

	// Deterministic.
	assert.Equal(t, data, PrivateKey.Sign([]byte("sample")))
}

func TestSignatureIsLowS(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	halfN := new(big.Int).Rsh(priv.Params().N, 1)

	for i := 0; i < 32; i++ {
		sig := priv.Sign([]byte{byte(i)})
		require.Len(t, sig, SignatureLen)
		s := new(big.Int).SetBytes(sig[32:])
		require.True(t, s.Cmp(halfN) <= 0)
	}
}

func TestDestroyTwice(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	priv.Destroy()
	priv.Destroy()
	require.Equal(t, make([]byte, PrivateKeyLen), priv.Bytes())
}
