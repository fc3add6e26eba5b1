// Package types defines the data-model entities shared across the consensus
// engines: transactions, DAG blocks, VDF proofs, votes, PBFT blocks and
// period data, plus their canonical encoding and hashing.
package types

import (
	"encoding/hex"

	"github.com/luxfi/ids"
)

// Hash is a 256-bit digest, aliasing the ecosystem's 32-byte ID type so that
// block, transaction and vote hashes interoperate with luxfi/ids consumers.
type Hash = ids.ID

// Address is a 160-bit account address.
type Address [20]byte

func (a Address) String() string { return hex.EncodeToString(a[:]) }

// ZeroHash is the genesis pivot placeholder: "non-zero after genesis" per
// the DAG block invariant means every block but genesis itself must not
// reference ZeroHash as its pivot.
var ZeroHash Hash
