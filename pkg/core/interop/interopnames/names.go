package interopnames

// Names of the interops used by standard account scripts.
const (
	SystemCryptoCheckSig      = "System.Crypto.CheckSig"
	SystemCryptoCheckMultisig = "System.Crypto.CheckMultisig"
)

var names = []string{
	SystemCryptoCheckSig,
	SystemCryptoCheckMultisig,
}
