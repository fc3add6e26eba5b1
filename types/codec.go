package types

// This file adds the explicit Encode/Decode round-trip each entity's
// private encode() already defines the format for, satisfying spec.md §8's
// round-trip law ("Serialize-then-deserialize is identity for DagBlock,
// PbftBlock, Transaction, Vote, PeriodData") and giving the storage layer
// a persistence format to write/read rather than re-deriving one.

// EncodeTransaction serializes tx in the canonical encoding.
func EncodeTransaction(tx *Transaction) ([]byte, error) {
	return tx.encode(), nil
}

// DecodeTransaction is the inverse of EncodeTransaction.
func DecodeTransaction(buf []byte) (*Transaction, error) {
	d := newDecoder(buf)
	tx := &Transaction{}
	tx.Nonce = d.uint64()
	tx.Value = d.uint64()
	tx.GasLimit = d.uint64()
	tx.GasPrice = d.uint64()
	if recv := d.bytes(); len(recv) > 0 {
		a := Address{}
		copy(a[:], recv)
		tx.Receiver = &a
	}
	tx.Payload = d.bytes()
	tx.Sender = d.address()
	tx.Signature = d.bytes()
	return tx, nil
}

// EncodeVote serializes v in the canonical encoding (including VrfProof,
// unlike SignedPayload which excludes it).
func EncodeVote(v *Vote) ([]byte, error) {
	e := newEncoder()
	e.bytes(v.SignedPayload())
	e.bytes(v.VrfProof)
	e.bytes(v.Voter[:])
	e.bytes(v.Signature)
	return e.bytes_, nil
}

// DecodeVote is the inverse of EncodeVote.
func DecodeVote(buf []byte) (*Vote, error) {
	d := newDecoder(buf)
	signed := newDecoder(d.bytes())
	v := &Vote{}
	v.Round = signed.uint64()
	v.Period = signed.uint64()
	v.Step = signed.uint64()
	v.Type = VoteType(signed.uint64())
	v.BlockHash = signed.hash()
	v.VrfProof = d.bytes()
	v.Voter = d.address()
	v.Signature = d.bytes()
	return v, nil
}

// EncodeDagBlock serializes b in the canonical encoding.
func EncodeDagBlock(b *DagBlock) ([]byte, error) {
	return b.encode(), nil
}

// DecodeDagBlock is the inverse of EncodeDagBlock.
func DecodeDagBlock(buf []byte) (*DagBlock, error) {
	d := newDecoder(buf)
	b := &DagBlock{}
	b.Pivot = d.hash()
	for _, raw := range d.list() {
		var h Hash
		copy(h[:], raw)
		b.Tips = append(b.Tips, h)
	}
	b.Level = d.uint64()
	for _, raw := range d.list() {
		var h Hash
		copy(h[:], raw)
		b.TxHashes = append(b.TxHashes, h)
	}
	for _, raw := range d.list() {
		gd := newDecoder(raw)
		b.GasEstimates = append(b.GasEstimates, gd.uint64())
	}
	vdf, err := DecodeVdfProof(d.bytes())
	if err != nil {
		return nil, err
	}
	b.Vdf = *vdf
	b.Proposer = d.address()
	b.Signature = d.bytes()
	return b, nil
}

// DecodeVdfProof is the inverse of VdfProof.encode.
func DecodeVdfProof(buf []byte) (*VdfProof, error) {
	d := newDecoder(buf)
	p := &VdfProof{}
	p.DifficultyBound = d.uint64()
	p.Solution = d.bytes()
	p.Level = d.uint64()
	p.ParentPivot = d.hash()
	p.PeriodSeed = d.hash()
	return p, nil
}

// EncodePbftBlock serializes b in the canonical encoding.
func EncodePbftBlock(b *PbftBlock) ([]byte, error) {
	return b.encode(), nil
}

// DecodePbftBlock is the inverse of EncodePbftBlock.
func DecodePbftBlock(buf []byte) (*PbftBlock, error) {
	d := newDecoder(buf)
	b := &PbftBlock{}
	b.Period = d.uint64()
	b.PreviousBlockHash = d.hash()
	b.AnchorHash = d.hash()
	b.OrderHash = d.hash()
	b.Proposer = d.address()
	for _, raw := range d.list() {
		var h Hash
		copy(h[:], raw)
		b.RewardVoteHashes = append(b.RewardVoteHashes, h)
	}
	b.Signature = d.bytes()
	return b, nil
}

// EncodePeriodData serializes the full synced-period bundle as a single
// record: the finalized block, its cert-votes, the dag blocks it orders,
// and their transactions.
func EncodePeriodData(p *PeriodData) ([]byte, error) {
	e := newEncoder()
	blockBytes, err := EncodePbftBlock(p.Block)
	if err != nil {
		return nil, err
	}
	e.bytes(blockBytes)

	votes := make([][]byte, len(p.CertVotes))
	for i, v := range p.CertVotes {
		vb, err := EncodeVote(v)
		if err != nil {
			return nil, err
		}
		votes[i] = vb
	}
	e.list(votes)

	blocks := make([][]byte, len(p.DagBlocks))
	for i, blk := range p.DagBlocks {
		bb, err := EncodeDagBlock(blk)
		if err != nil {
			return nil, err
		}
		blocks[i] = bb
	}
	e.list(blocks)

	txs := make([][]byte, len(p.Transactions))
	for i, tx := range p.Transactions {
		tb, err := EncodeTransaction(tx)
		if err != nil {
			return nil, err
		}
		txs[i] = tb
	}
	e.list(txs)

	return e.bytes_, nil
}

// DecodePeriodData is the inverse of EncodePeriodData.
func DecodePeriodData(buf []byte) (*PeriodData, error) {
	d := newDecoder(buf)
	p := &PeriodData{}

	block, err := DecodePbftBlock(d.bytes())
	if err != nil {
		return nil, err
	}
	p.Block = block

	for _, raw := range d.list() {
		v, err := DecodeVote(raw)
		if err != nil {
			return nil, err
		}
		p.CertVotes = append(p.CertVotes, v)
	}
	for _, raw := range d.list() {
		blk, err := DecodeDagBlock(raw)
		if err != nil {
			return nil, err
		}
		p.DagBlocks = append(p.DagBlocks, blk)
	}
	for _, raw := range d.list() {
		tx, err := DecodeTransaction(raw)
		if err != nil {
			return nil, err
		}
		p.Transactions = append(p.Transactions, tx)
	}

	return p, nil
}
