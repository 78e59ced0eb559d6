/*
Package smartcontract contains functions to deal with standard account
verification scripts and NEP-6 contract parameter types. A regular Neo
account is controlled by a single public key, its verification script
pushes the key and calls System.Crypto.CheckSig, the hash of this script
is the account's script hash (and address).
*/
package smartcontract
