package types

// DagBlock is a proposal referencing a mandatory pivot parent and zero or
// more tip parents, plus the transactions it carries. It is immutable once
// admitted: a DAG block is never modified after admission.
type DagBlock struct {
	Pivot        Hash
	Tips         []Hash
	Level        uint64
	TxHashes     []Hash
	GasEstimates []uint64
	Vdf          VdfProof
	Proposer     Address
	Signature    []byte
}

// Hash is the derived canonical digest; the signature is part of the
// hashed encoding, matching transactions (SigningPayload is the variant
// with the signature cleared).
func (b *DagBlock) Hash() Hash {
	return hashRLP(b.encode())
}

func (b *DagBlock) encode() []byte {
	e := newEncoder()
	e.bytes(b.Pivot[:])
	tips := make([][]byte, len(b.Tips))
	for i, t := range b.Tips {
		tips[i] = append([]byte(nil), t[:]...)
	}
	e.list(tips)
	e.uint64(b.Level)
	txs := make([][]byte, len(b.TxHashes))
	for i, t := range b.TxHashes {
		txs[i] = append([]byte(nil), t[:]...)
	}
	e.list(txs)
	gas := make([][]byte, len(b.GasEstimates))
	for i, g := range b.GasEstimates {
		ge := newEncoder()
		ge.uint64(g)
		gas[i] = ge.bytes_
	}
	e.list(gas)
	e.bytes(b.Vdf.encode())
	e.bytes(b.Proposer[:])
	e.bytes(b.Signature)
	return e.bytes_
}

// SigningPayload is the message a proposer signs and a verifier re-derives
// to check the signature: the block's canonical hash computed with the
// signature field cleared, so the signature itself is never part of what it
// covers.
func (b *DagBlock) SigningPayload() []byte {
	cp := *b
	cp.Signature = nil
	return []byte(cp.Hash().String())
}

// TotalGas sums the per-transaction gas estimates, used by the proposer's
// gas-cap clipping and by the verifier's reject-on-overflow check.
func (b *DagBlock) TotalGas() uint64 {
	var sum uint64
	for _, g := range b.GasEstimates {
		sum += g
	}
	return sum
}
