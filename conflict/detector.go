// Package conflict implements the best-effort transaction conflict
// detector (spec.md §4.2): per-(contract, slot) read/shared/write tracking
// used within a single proposal cycle to classify parallel-safety.
//
// Grounded on original_source/concur_storage/conflict_detector.cpp's
// Detector::load/Detector::store CAS state machine.
package conflict

import (
	"hash/fnv"

	"github.com/taraxa-go/dagbft/concurrentmap"
	"github.com/taraxa-go/dagbft/types"
)

type slotValue struct {
	v types.ConflictValue
}

func (s slotValue) Equal(o slotValue) bool {
	return s.v.Tx == o.v.Tx && s.v.Mode == o.v.Mode
}

func hashKey(k types.ConflictKey) uint64 {
	h := fnv.New64a()
	h.Write(k.Contract[:])
	h.Write(k.Slot[:])
	return h.Sum64()
}

// Detector is best-effort: a false "conflict" (reporting a conflict where
// none exists) is allowed and simply forces serial execution of the
// colliding pair; a false "no-conflict" must never happen, which is why
// every promotion goes through compare-and-swap rather than read-then-write.
type Detector struct {
	cells *concurrentmap.Map[types.ConflictKey, slotValue]
}

// New constructs a Detector over a fresh sharded map scoped to one proposal
// cycle; stripeExponent follows the same (0-9) convention as concurrentmap.
func New(stripeExponent uint) *Detector {
	return &Detector{cells: concurrentmap.New[types.ConflictKey, slotValue](stripeExponent, hashKey)}
}

// Load records a read access by tx at key, returning whether it is safe to
// proceed without serializing against a concurrent writer. Each attempt is a
// single CAS: losing the race is a false negative the original tolerates
// (another op beat us to it) rather than something to retry past.
func (d *Detector) Load(key types.ConflictKey, tx types.Hash) bool {
	cur, present := d.cells.Get(key)
	if !present {
		return d.cells.TryInsert(key, slotValue{types.ConflictValue{Tx: tx, Mode: types.AccessRead}})
	}
	switch {
	case cur.v.Tx == tx:
		return true
	case cur.v.Mode == types.AccessShared:
		return true
	case cur.v.Mode == types.AccessRead:
		next := slotValue{types.ConflictValue{Tx: cur.v.Tx, Mode: types.AccessShared}}
		return concurrentmap.TryUpdate(d.cells, key, cur, next)
	default: // write by another tx
		return false
	}
}

// Store records a write access by tx at key, returning whether it is safe
// to proceed. As with Load, each attempt is a single CAS; a lost race
// returns false rather than retrying.
func (d *Detector) Store(key types.ConflictKey, tx types.Hash) bool {
	cur, present := d.cells.Get(key)
	if !present {
		return d.cells.TryInsert(key, slotValue{types.ConflictValue{Tx: tx, Mode: types.AccessWrite}})
	}
	if cur.v.Tx == tx {
		// Same tx: write/read are both fine (idempotent or first write),
		// but a cell already shared with other txs can no longer be won
		// exclusively by a plain write.
		return cur.v.Mode != types.AccessShared
	}
	switch cur.v.Mode {
	case types.AccessRead:
		next := slotValue{types.ConflictValue{Tx: tx, Mode: types.AccessWrite}}
		return concurrentmap.TryUpdate(d.cells, key, cur, next)
	default: // shared or write by another tx
		return false
	}
}

// Clear resets the detector for a new proposal cycle.
func (d *Detector) Clear() { d.cells.Clear() }
