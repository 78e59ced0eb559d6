package keys

import (
	"crypto/sha256"
	"testing"

	"github.com/nspcc-dev/neo-keystore/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHashable []byte

func (h testHashable) Hash() util.Uint256 {
	return hash.Sha256(h)
}

func sha256Digest(data []byte) [32]byte {
	return sha256.Sum256(data)
}

func TestPubKeyVerify(t *testing.T) {
	var data = []byte("sample")
	hashedData := hash.Sha256(data)

	privKey, err := NewPrivateKey()
	assert.Nil(t, err)
	signedData := privKey.Sign(data)
	pubKey := privKey.PublicKey()
	result := pubKey.Verify(signedData, hashedData.BytesBE())
	expected := true
	assert.Equal(t, expected, result)

	pubKey = &PublicKey{}
	assert.False(t, pubKey.Verify(signedData, hashedData.BytesBE()))

	var nilKey *PublicKey
	assert.False(t, nilKey.Verify(signedData, hashedData.BytesBE()))
}

func TestWrongPubKey(t *testing.T) {
	privKey, _ := NewPrivateKey()
	sample := []byte("sample")
	hashedData := hash.Sha256(sample)
	signedData := privKey.Sign(sample)

	secondPrivKey, _ := NewPrivateKey()
	wrongPubKey := secondPrivKey.PublicKey()

	actual := wrongPubKey.Verify(signedData, hashedData.BytesBE())
	expcted := false
	assert.Equal(t, expcted, actual)
}

func TestVerifyMalformedSignature(t *testing.T) {
	privKey, err := NewPrivateKey()
	require.NoError(t, err)
	pub := privKey.PublicKey()
	digest := hash.Sha256([]byte("sample"))
	sig := privKey.SignHash(digest)

	require.True(t, pub.Verify(sig, digest[:]))
	require.False(t, pub.Verify(nil, digest[:]))
	require.False(t, pub.Verify(sig[:63], digest[:]))
	require.False(t, pub.Verify(append(sig, 0), digest[:]))
	require.False(t, pub.Verify(make([]byte, SignatureLen), digest[:]))

	corrupted := append([]byte{}, sig...)
	corrupted[10] ^= 0xff
	require.False(t, pub.Verify(corrupted, digest[:]))
}

func TestSignHashable(t *testing.T) {
	privKey, err := NewPrivateKey()
	require.NoError(t, err)
	pub := privKey.PublicKey()

	tx := testHashable("unsigned transaction")
	sig := privKey.SignHashable(42, tx)
	require.True(t, pub.VerifyHashable(sig, 42, tx))
	require.False(t, pub.VerifyHashable(sig, 43, tx))
	require.False(t, pub.VerifyHashable(sig, 42, testHashable("another one")))

	digest := hash.NetSha256(42, tx)
	require.Equal(t, sig, privKey.SignHash(digest))
}
