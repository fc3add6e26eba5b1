package storage

import (
	"github.com/luxfi/database"

	"github.com/taraxa-go/dagbft/types"
)

// Store wraps a flat luxfi/database.Database with the column-prefixed
// layout spec.md §4.13/§6 describe, and exposes the single-batch-per-
// logical-event write path the concurrency model requires (§5: "all
// multi-key updates go through a single batch commit per logical event").
type Store struct {
	db database.Database
}

// New wraps db as a Store.
func New(db database.Database) *Store {
	return &Store{db: db}
}

// Get reads a single key from column c.
func (s *Store) Get(c Column, k []byte) ([]byte, error) {
	return s.db.Get(key(c, k))
}

// Has reports whether k exists in column c.
func (s *Store) Has(c Column, k []byte) (bool, error) {
	return s.db.Has(key(c, k))
}

// Put writes a single key to column c outside of a batch (used for
// incidental writes that aren't part of a multi-column logical event).
func (s *Store) Put(c Column, k, v []byte) error {
	return s.db.Put(key(c, k), v)
}

// WriteBatch accumulates puts across columns for one atomic commit, the
// idiom migration_base.hpp's Base and every §4.13 write path use.
type WriteBatch struct {
	batch database.Batch
}

// NewBatch starts a new cross-column write batch.
func (s *Store) NewBatch() *WriteBatch {
	return &WriteBatch{batch: s.db.NewBatch()}
}

// Put stages a write to column c within the batch.
func (b *WriteBatch) Put(c Column, k, v []byte) error {
	return b.batch.Put(key(c, k), v)
}

// Delete stages a deletion from column c within the batch.
func (b *WriteBatch) Delete(c Column, k []byte) error {
	return b.batch.Delete(key(c, k))
}

// Commit writes every staged change atomically.
func (b *WriteBatch) Commit() error {
	return b.batch.Write()
}

// ChainTip returns the PBFT chain tip recorded under the well-known status
// key, or the zero hash if none has been written yet.
func (s *Store) ChainTip() (types.Hash, error) {
	v, err := s.Get(ColumnPbftManagerStatus, pbftChainTipKey)
	if err == database.ErrNotFound {
		return types.ZeroHash, nil
	}
	if err != nil {
		return types.ZeroHash, err
	}
	var h types.Hash
	copy(h[:], v)
	return h, nil
}

// SetChainTip stages the chain tip update within a batch.
func (b *WriteBatch) SetChainTip(h types.Hash) error {
	return b.Put(ColumnPbftManagerStatus, pbftChainTipKey, h[:])
}

// PbftBlockHashByPeriod looks up the finalized block hash for a period.
func (s *Store) PbftBlockHashByPeriod(period uint64) (types.Hash, bool, error) {
	v, err := s.Get(ColumnPbftBlkByPeriod, periodKey(period))
	if err == database.ErrNotFound {
		return types.ZeroHash, false, nil
	}
	if err != nil {
		return types.ZeroHash, false, err
	}
	var h types.Hash
	copy(h[:], v)
	return h, true, nil
}
