package types

// PbftBlock is a finalized unit of the period chain: it commits an anchor
// DAG vertex (or none, for an empty period) plus a commitment over the
// resulting DAG/transaction order.
type PbftBlock struct {
	Period            uint64
	PreviousBlockHash Hash
	AnchorHash        Hash // ZeroHash when the period has no anchor
	OrderHash         Hash
	Proposer          Address
	RewardVoteHashes  []Hash // cert-votes that finalized the previous block
	Signature         []byte
}

func (b *PbftBlock) Hash() Hash {
	return hashRLP(b.encode())
}

func (b *PbftBlock) encode() []byte {
	e := newEncoder()
	e.uint64(b.Period)
	e.bytes(b.PreviousBlockHash[:])
	e.bytes(b.AnchorHash[:])
	e.bytes(b.OrderHash[:])
	e.bytes(b.Proposer[:])
	rv := make([][]byte, len(b.RewardVoteHashes))
	for i, h := range b.RewardVoteHashes {
		rv[i] = append([]byte(nil), h[:]...)
	}
	e.list(rv)
	e.bytes(b.Signature)
	return e.bytes_
}

// OrderHashOf computes the order_hash commitment over the DAG order and the
// transaction order, per spec §6 / §4.9 Propose.
func OrderHashOf(dagOrder []Hash, txOrder []Hash) Hash {
	e := newEncoder()
	d := make([][]byte, len(dagOrder))
	for i, h := range dagOrder {
		d[i] = append([]byte(nil), h[:]...)
	}
	e.list(d)
	t := make([][]byte, len(txOrder))
	for i, h := range txOrder {
		t[i] = append([]byte(nil), h[:]...)
	}
	e.list(t)
	return hashRLP(e.bytes_)
}

// PeriodData bundles a finalized PBFT block with the certify votes that
// finalized it, the DAG blocks it finalizes, and the transactions those DAG
// blocks contain.
type PeriodData struct {
	Block       *PbftBlock
	CertVotes   []*Vote
	DagBlocks   []*DagBlock
	Transactions []*Transaction
}
