package transaction

import (
	"github.com/nspcc-dev/neo-keystore/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-keystore/pkg/util"
)

// Unsigned is a serialized transaction without its witnesses. The keystore
// doesn't build transactions, it only signs bytes produced elsewhere.
type Unsigned []byte

// Hash returns the transaction hash (SHA-256 of the unsigned data).
func (u Unsigned) Hash() util.Uint256 {
	return hash.Sha256(u)
}
