// Package txpool implements the hash-keyed transaction pool (spec.md
// §4.7): dedup insert, reservation for packing, release, remove-on-commit,
// and an LRU expiration cache of recently finalized hashes.
package txpool

import (
	"container/list"
	"sync"

	"github.com/taraxa-go/dagbft/types"
)

const defaultMaxPoolSize = 200_000

// Pool is a bounded, hash-keyed transaction pool.
type Pool struct {
	mu          sync.Mutex
	maxSize     int
	byHash      map[types.Hash]*types.Transaction
	reserved    map[types.Hash]bool
	order       *list.List // LRU order for eviction of unreserved txs
	elements    map[types.Hash]*list.Element
	expiration  *lru
}

// New constructs a Pool bounded by maxSize (0 uses the default 2x10^5).
func New(maxSize int) *Pool {
	if maxSize <= 0 {
		maxSize = defaultMaxPoolSize
	}
	return &Pool{
		maxSize:    maxSize,
		byHash:     make(map[types.Hash]*types.Transaction),
		reserved:   make(map[types.Hash]bool),
		order:      list.New(),
		elements:   make(map[types.Hash]*list.Element),
		expiration: newLRU(0),
	}
}

// Insert adds tx, returning false if its hash is already present (either in
// the pool or in the finalized-expiration cache, so recently committed
// transactions aren't re-admitted).
func (p *Pool) Insert(tx *types.Transaction) bool {
	h := tx.Hash()
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byHash[h]; ok {
		return false
	}
	if p.expiration.has(h) {
		return false
	}
	p.byHash[h] = tx
	p.elements[h] = p.order.PushBack(h)
	p.evictIfOverCapacity()
	return true
}

// evictIfOverCapacity drops unreserved tails in delete_step-sized chunks
// whenever size exceeds maxSize (spec §5 backpressure).
const deleteStep = 64

func (p *Pool) evictIfOverCapacity() {
	if len(p.byHash) <= p.maxSize {
		return
	}
	evicted := 0
	for e := p.order.Front(); e != nil && evicted < deleteStep; {
		next := e.Next()
		h := e.Value.(types.Hash)
		if !p.reserved[h] {
			delete(p.byHash, h)
			delete(p.elements, h)
			p.order.Remove(e)
			evicted++
		}
		e = next
	}
}

// ReserveForPack returns up to limit transactions not already reserved,
// shard-filtered by keep, and marks them reserved.
func (p *Pool) ReserveForPack(limit int, keep func(tx *types.Transaction) bool) []*types.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*types.Transaction
	for e := p.order.Front(); e != nil && len(out) < limit; e = e.Next() {
		h := e.Value.(types.Hash)
		if p.reserved[h] {
			continue
		}
		tx := p.byHash[h]
		if keep != nil && !keep(tx) {
			continue
		}
		p.reserved[h] = true
		out = append(out, tx)
	}
	return out
}

// ReleaseReservation un-reserves hashes (e.g. a proposal round that did not
// commit), making them eligible for packing again.
func (p *Pool) ReleaseReservation(hashes []types.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range hashes {
		delete(p.reserved, h)
	}
}

// RemoveOnCommit removes hashes from the pool (they are now part of a
// finalized block) and records them in the expiration cache so peers don't
// re-gossip them for the configured retention window.
func (p *Pool) RemoveOnCommit(hashes []types.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range hashes {
		if e, ok := p.elements[h]; ok {
			p.order.Remove(e)
			delete(p.elements, h)
		}
		delete(p.byHash, h)
		delete(p.reserved, h)
		p.expiration.insert(h)
	}
}

// Size returns the current pool size.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byHash)
}

// Has reports whether hash is present in the pool (not the expiration
// cache).
func (p *Pool) Has(hash types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.byHash[hash]
	return ok
}

// Get returns the pooled transaction for hash, or nil if absent.
func (p *Pool) Get(hash types.Hash) *types.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byHash[hash]
}

// RecentlyFinalized reports whether hash was recently committed, per the
// expiration cache's retention window.
func (p *Pool) RecentlyFinalized(hash types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expiration.has(hash)
}
