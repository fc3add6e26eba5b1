package types

// Transaction is the unit of work carried by DAG blocks. Its hash is
// derived, not stored; a sender's nonces must be strictly increasing in any
// finalized sequence.
type Transaction struct {
	Nonce     uint64
	Value     uint64
	GasLimit  uint64
	GasPrice  uint64
	Receiver  *Address // nil for contract creation
	Payload   []byte
	Sender    Address
	Signature []byte
}

// Hash returns the canonical Keccak-256 digest of the transaction, excluding
// nothing: the signature is part of the signed payload for a transaction
// (unlike votes, which exclude the VRF proof from their signed message).
func (t *Transaction) Hash() Hash {
	return hashRLP(t.encode())
}

func (t *Transaction) encode() []byte {
	e := newEncoder()
	e.uint64(t.Nonce)
	e.uint64(t.Value)
	e.uint64(t.GasLimit)
	e.uint64(t.GasPrice)
	if t.Receiver != nil {
		e.bytes(t.Receiver[:])
	} else {
		e.bytes(nil)
	}
	e.bytes(t.Payload)
	e.bytes(t.Sender[:])
	e.bytes(t.Signature)
	return e.bytes_
}
