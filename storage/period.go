package storage

import (
	"github.com/taraxa-go/dagbft/executor"
	"github.com/taraxa-go/dagbft/types"
)

// CommitPeriod implements executor.Store: it writes the finalized block,
// its cert-votes, the dag blocks and transactions it orders, and their
// receipts, all inside one atomic batch, plus the period<->block-hash
// index and the chain tip — one logical event, one batch, per spec.md §5.
func (s *Store) CommitPeriod(batch *executor.Batch) error {
	b := s.NewBatch()

	blockBytes, err := types.EncodePbftBlock(batch.Block)
	if err != nil {
		return err
	}
	period := batch.Block.Period
	hash := batch.Block.Hash()

	if err := b.Put(ColumnPeriodData, periodKey(period), blockBytes); err != nil {
		return err
	}
	if err := b.Put(ColumnPbftBlkByPeriod, periodKey(period), hash[:]); err != nil {
		return err
	}
	if err := b.Put(ColumnPeriodByPbftBlk, hash[:], periodKey(period)); err != nil {
		return err
	}
	if err := b.SetChainTip(hash); err != nil {
		return err
	}

	for _, dagBlk := range batch.DagBlocks {
		dh := dagBlk.Hash()
		dbytes, err := types.EncodeDagBlock(dagBlk)
		if err != nil {
			return err
		}
		if err := b.Put(ColumnDagBlocks, dh[:], dbytes); err != nil {
			return err
		}
	}

	for i, tx := range batch.Transactions {
		th := tx.Hash()
		tbytes, err := types.EncodeTransaction(tx)
		if err != nil {
			return err
		}
		if err := b.Put(ColumnTransactions, th[:], tbytes); err != nil {
			return err
		}
		if err := b.Put(ColumnTransactionLocation, th[:], periodKey(period)); err != nil {
			return err
		}
		if err := b.Put(ColumnReceipts, th[:], encodeReceipt(batch.Receipts[i])); err != nil {
			return err
		}
	}

	for _, v := range batch.CertVotes {
		vh := v.Hash()
		vbytes, err := types.EncodeVote(v)
		if err != nil {
			return err
		}
		if err := b.Put(ColumnTwoTPlusOneVotesCert, vh[:], vbytes); err != nil {
			return err
		}
	}

	return b.Commit()
}

// encodeReceipt is a minimal fixed-layout encoding: one status byte
// followed by the big-endian gas used.
func encodeReceipt(r executor.Receipt) []byte {
	out := make([]byte, 9)
	if r.Status {
		out[0] = 1
	}
	gas := r.GasUsed
	for i := 8; i >= 1; i-- {
		out[i] = byte(gas)
		gas >>= 8
	}
	return out
}
