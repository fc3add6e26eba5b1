// Package pbftchain implements the finalized PBFT period chain and the
// peer-sync staging queue in front of it (spec.md §4.10), grounded on
// original_source/.../pbft/pbft_chain.{hpp,cpp} and period_data_queue.cpp.
package pbftchain

import (
	"sync"

	"github.com/taraxa-go/dagbft/types"
)

// Chain is the append-only finalized sequence of PbftBlocks plus the
// in-flight unverified blocks awaiting certification. It satisfies
// pbft.ChainReader.
type Chain struct {
	mu sync.RWMutex

	byHash   map[types.Hash]*types.PbftBlock
	byPeriod map[uint64]types.Hash
	last     types.Hash
	size     uint64

	unverified map[types.Hash]*types.PbftBlock
}

// New constructs an empty chain (no genesis PBFT block — period 0 is the
// DAG genesis).
func New() *Chain {
	return &Chain{
		byHash:     make(map[types.Hash]*types.PbftBlock),
		byPeriod:   make(map[uint64]types.Hash),
		unverified: make(map[types.Hash]*types.PbftBlock),
	}
}

// Size is the number of finalized periods in the chain.
func (c *Chain) Size() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// LastBlockHash is the hash of the most recently finalized block, or
// ZeroHash if the chain is empty.
func (c *Chain) LastBlockHash() types.Hash {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// FindInChain reports whether hash identifies a finalized block.
func (c *Chain) FindInChain(hash types.Hash) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byHash[hash]
	return ok
}

// BlockByHash returns a finalized block, or nil if not present.
func (c *Chain) BlockByHash(hash types.Hash) *types.PbftBlock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byHash[hash]
}

// BlockByPeriod returns the finalized block at period, or nil.
func (c *Chain) BlockByPeriod(period uint64) *types.PbftBlock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hash, ok := c.byPeriod[period]
	if !ok {
		return nil
	}
	return c.byHash[hash]
}

// PushUnverified stages a candidate block the node has proposed or
// received, prior to certification.
func (c *Chain) PushUnverified(block *types.PbftBlock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unverified[block.Hash()] = block
}

// GetUnverified returns a staged candidate, or nil.
func (c *Chain) GetUnverified(hash types.Hash) *types.PbftBlock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unverified[hash]
}

// CheckValidation confirms a candidate block's previous-block link matches
// the chain's current tip — the structural half of the "order hash
// matches" contract; DAG-order/tx-order verification against the anchor is
// the executor's job (it has DAG lookup access this package does not).
func (c *Chain) CheckValidation(block *types.PbftBlock) bool {
	if block == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.size == 0 {
		return block.PreviousBlockHash == types.ZeroHash
	}
	return block.PreviousBlockHash == c.last
}

// Finalize appends a certified block to the chain, advancing the tip.
// Callers must have already confirmed CheckValidation and 2t+1 cert-votes.
func (c *Chain) Finalize(block *types.PbftBlock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hash := block.Hash()
	c.byHash[hash] = block
	c.byPeriod[block.Period] = hash
	c.last = hash
	c.size = block.Period
	delete(c.unverified, hash)
}
