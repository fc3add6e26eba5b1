// Package storage persists the consensus core's state through a single
// key-value store, partitioned into logical column families by key prefix,
// plus an ordered, idempotent migration runner (spec.md §4.13).
//
// Grounded on original_source/.../storage/storage.hpp's DbStorage::Columns
// enum for the column list and original_source/.../storage/migration/
// migration_base.hpp's Base (id/dbVersion/isApplied/apply, batched commit)
// for the migration contract. The underlying store is
// github.com/luxfi/database's Database/Batch interfaces (the same
// flat-keyspace KV abstraction the teacher's engine/dag/state and
// chains/atomic packages build on); column separation is done by
// big-endian-safe byte-prefixing each key, the standard idiom for a flat
// KV store that otherwise matches a genuine RocksDB column family.
package storage

// Column is a logical partition of the keyspace, corresponding 1:1 to
// spec.md §4.13's column family list.
type Column byte

const (
	ColumnDagBlocks Column = iota
	ColumnPeriodData
	ColumnTransactions
	ColumnReceipts
	ColumnVerifiedVotes
	ColumnOwnVotes
	ColumnTwoTPlusOneVotesPropose
	ColumnTwoTPlusOneVotesSoft
	ColumnTwoTPlusOneVotesCert
	ColumnTwoTPlusOneVotesNext
	ColumnPbftManagerStatus
	ColumnPbftBlkByPeriod
	ColumnPeriodByPbftBlk
	ColumnTransactionLocation
	ColumnFinalChainHeader
	ColumnMigrations
)

func (c Column) String() string {
	switch c {
	case ColumnDagBlocks:
		return "dag_blocks"
	case ColumnPeriodData:
		return "period_data"
	case ColumnTransactions:
		return "transactions"
	case ColumnReceipts:
		return "receipts"
	case ColumnVerifiedVotes:
		return "verified_votes"
	case ColumnOwnVotes:
		return "own_votes"
	case ColumnTwoTPlusOneVotesPropose:
		return "2tp1_votes[propose]"
	case ColumnTwoTPlusOneVotesSoft:
		return "2tp1_votes[soft]"
	case ColumnTwoTPlusOneVotesCert:
		return "2tp1_votes[cert]"
	case ColumnTwoTPlusOneVotesNext:
		return "2tp1_votes[next]"
	case ColumnPbftManagerStatus:
		return "pbft_manager_status"
	case ColumnPbftBlkByPeriod:
		return "pbft_blk_by_period"
	case ColumnPeriodByPbftBlk:
		return "period_by_pbft_blk"
	case ColumnTransactionLocation:
		return "transaction_location"
	case ColumnFinalChainHeader:
		return "final_chain_header"
	case ColumnMigrations:
		return "migrations"
	default:
		return "unknown"
	}
}

// key builds the prefixed storage key for k within column c.
func key(c Column, k []byte) []byte {
	out := make([]byte, 1+len(k))
	out[0] = byte(c)
	copy(out[1:], k)
	return out
}

// periodKey is the fixed-width big-endian encoding spec.md §6 requires for
// period-indexed columns.
func periodKey(period uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(period)
		period >>= 8
	}
	return b
}

// pbftChainTipKey is the well-known key the PBFT chain tip is stored under
// within ColumnPbftManagerStatus, per spec.md §6.
var pbftChainTipKey = []byte("pbft_chain_tip")
