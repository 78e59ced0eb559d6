/*
Package keytestcases contains known keys in all of their encodings shared by
key and wallet tests. Encrypted keys use the standard NEP-2 scrypt
parameters.
*/
package keytestcases

// Ktype represents key testcase values (different encodings of the key).
type Ktype struct {
	Address,
	PrivateKey,
	PublicKey,
	Wif,
	Passphrase,
	EncryptedWif string
	Invalid bool
}

// Arr contains a set of known keys in Ktype format.
var Arr = []Ktype{
	{
		Address:      "NPTmAHDxo6Pkyic8Nvu3kwyXoYJCvcCB6i",
		PrivateKey:   "7d128a6d096f0c14c3a25a2b0c41cf79661bfcb4a8cc95aaaea28bde4d732344",
		PublicKey:    "02028a99826edc0c97d18e22b6932373d908d323aa7f92656a77ec26e8861699ef",
		Wif:          "L1QqQJnpBwbsPGAuutuzPTac8piqvbR1HRjrY5qHup48TBCBFe4g",
		Passphrase:   "city of zion",
		EncryptedWif: "6PYUUUFei9PBBfVkSn8q7hFCnewWFRBKPxcn6Kz6Bmk3FqWyLyuTQE2XFH",
	},
	{
		Address:      "NMBfzaEq2c5zodiNbLPoohVENARMbJim1r",
		PrivateKey:   "9ab7e154840daca3a2efadaf0df93cd3a5b51768c632f5433f86909d9b994a69",
		PublicKey:    "031d8e1630ce640966967bc6d95223d21f44304133003140c3b52004dc981349c9",
		Wif:          "L2QTooFoDFyRFTxmtiVHt5CfsXfVnexdbENGDkkrrgTTryiLsPMG",
		Passphrase:   "我的密码",
		EncryptedWif: "6PYUmBuLbdXdnybyNeafUJUrVhoBRZpjHACdY9K2VCNzD5tuX5tXgr9fur",
	},
	{
		Address:      "NfVdwyaJbijrWkRagrvs4eSRQUpP7WpukT",
		PrivateKey:   "3edee7036b8fd9cef91de47386b191dd76db2888a553e7736bb02808932a915b",
		PublicKey:    "02232ce8d2e2063dce0451131851d47421bfc4fc1da4db116fca5302c0756462fa",
		Wif:          "KyKvWLZsNwBJx5j9nurHYRwhYfdQUu9tTEDsLCUHDbYBL8cHxMiG",
		Passphrase:   "MyL33tP@33w0rd",
		EncryptedWif: "6PYLQ9oCoEWCfuuHkq6xH4tYbi4Pyv9HYUU8WGkFVXtoczwTbitMjypkma",
	},
	{
		Address:      "NS5F1Mth64bgJW4LgmEMNdEk7pVeAp3jrF",
		PrivateKey:   "cbf4b9f70470856bb4f40f80b87edb90865997ffee6df315ab166d713af433a5",
		PublicKey:    "026241e7e26b38bb7154b8ad49458b97fb1c4797443dc921c5ca5774f511a2bbfc",
		Wif:          "L44B5gGEpqEDRS9vVPz7QT35jcBG2r3CZwSwQ4fCewXAhAhqGVpP",
		Passphrase:   "TestingOneTwoThree",
		EncryptedWif: "6PYP4G8nszhSeYCpSHPSHdTsghgKXCWLu61B8hSrqsUR2VtV21D2r536af",
	},
	{
		Address:      "NfVdwyaJbijrWkRagrvs4eSRQUpP7WpukT",
		PrivateKey:   "3edee7036b8fd9cef91de47386b191dd76db2888a553e7736bb02808932a915",
		PublicKey:    "02232ce8d2e2063dce0451131851d47421bfc4fc1da4db116fca5302c0756462fa",
		Wif:          "KyKvWLZsNwBJx5j9nurHYRwhYfdQUu9tTEDsLCUHDbYBL8cHxMiS",
		Passphrase:   "invalid_pass_but_valid_wif",
		EncryptedWif: "6PYLQ9oCoEWCfuuHkq6xH4tYbi4Pyv9HYUU8WGkFVXtoczwTbitMjypkma",
		Invalid:      true,
	},
}
