// Package proposer implements the periodic DAG block proposer (spec.md
// §4.6) and the PBFT block proposal algorithm invoked from the PBFT
// Propose step (spec.md §4.9, supplemented by the gas-clipping re-anchor
// algorithm in original_source/.../pbft/step/propose.cpp).
package proposer

import (
	"time"

	"github.com/luxfi/log"

	"github.com/taraxa-go/dagbft/crypto"
	"github.com/taraxa-go/dagbft/dag"
	"github.com/taraxa-go/dagbft/dagmgr"
	"github.com/taraxa-go/dagbft/txpool"
	"github.com/taraxa-go/dagbft/types"
	"github.com/taraxa-go/dagbft/validator"
	"github.com/taraxa-go/dagbft/vdf"
)

// Clock reports whether the node is currently syncing; the proposer loop
// skips ticks while true.
type Clock interface {
	Syncing() bool
}

// DagProposer periodically emits DagBlocks: fetch frontier, gate on DPoS
// eligibility and a VDF proof, pack a sharded subset of the tx pool, and
// hand the block to the DAG manager.
type DagProposer struct {
	log      log.Logger
	graph    *dag.Dag
	mgr      *dagmgr.Manager
	pool     *txpool.Pool
	vset     *validator.Registry
	key      *crypto.KeyPair
	vdfB     vdf.Bounds
	numShards uint64
	shard     uint64
	txLimit   uint64
	tickEvery time.Duration
	clock     Clock

	proposedLevels map[uint64]bool
}

// New constructs a DagProposer for this validator's key, packing shard
// `shard` of `numShards` total shards.
func New(logger log.Logger, graph *dag.Dag, mgr *dagmgr.Manager, pool *txpool.Pool, vset *validator.Registry,
	key *crypto.KeyPair, vdfB vdf.Bounds, numShards, shard, txLimit uint64, clock Clock) *DagProposer {
	return &DagProposer{
		log: logger, graph: graph, mgr: mgr, pool: pool, vset: vset, key: key, vdfB: vdfB,
		numShards: numShards, shard: shard, txLimit: txLimit, tickEvery: 100 * time.Millisecond,
		clock: clock, proposedLevels: make(map[uint64]bool),
	}
}

// Run loops until stop is closed, attempting one proposal per tick.
func (p *DagProposer) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(p.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if p.clock != nil && p.clock.Syncing() {
				continue
			}
			if _, err := p.Tick(0); err != nil {
				p.log.Debug("dag proposal skipped", "err", err)
			}
		}
	}
}

// Tick performs one proposal attempt. period identifies the DPoS stake
// snapshot to check eligibility against.
func (p *DagProposer) Tick(period uint64) (*types.DagBlock, error) {
	pivot, tips := p.frontier()
	level := p.levelOf(pivot, tips)

	// One proposal per level per proposer (spec §4.6).
	if p.proposedLevels[level] {
		return nil, errAlreadyProposedAtLevel
	}

	if !p.vset.At(period).Eligible(p.key.Address()) {
		return nil, errNotEligible
	}

	seed := pivot
	periodSeed := types.Hash{} // derived from the period's VRF beacon in a full deployment
	difficulty := vdf.Difficulty(p.vdfB, level, period)
	proof, err := vdf.Gate(p.vdfB, level, seed, periodSeed, difficulty)
	if err != nil {
		return nil, err
	}

	txs := p.pool.ReserveForPack(int(p.txLimit), func(tx *types.Transaction) bool {
		return shardOf(tx.Sender, p.numShards) == p.shard
	})

	txHashes := make([]types.Hash, len(txs))
	gasEstimates := make([]uint64, len(txs))
	for i, tx := range txs {
		txHashes[i] = tx.Hash()
		gasEstimates[i] = tx.GasLimit
	}

	block := &types.DagBlock{
		Pivot:        pivot,
		Tips:         tips,
		Level:        level,
		TxHashes:     txHashes,
		GasEstimates: gasEstimates,
		Vdf:          *proof,
		Proposer:     p.key.Address(),
	}
	block.Signature = p.key.Sign(block.SigningPayload())

	if err := p.mgr.PushUnverified(block); err != nil {
		p.pool.ReleaseReservation(txHashes)
		return nil, err
	}
	p.proposedLevels[level] = true
	return block, nil
}

// frontier follows the deterministic pivot chain (ghost path) from genesis
// to its tip for the new block's pivot, and offers every other current leaf
// as a tip, matching DagManager::getFrontier (ghost-path the anchor, then
// take every remaining leaf as a tip).
func (p *DagProposer) frontier() (types.Hash, []types.Hash) {
	ghost, err := p.graph.GhostPath(p.graph.Genesis())
	if err != nil || len(ghost) == 0 {
		return types.ZeroHash, nil
	}
	pivot := ghost[len(ghost)-1]

	leaves := p.graph.Leaves()
	tips := make([]types.Hash, 0, len(leaves))
	for _, l := range leaves {
		if l != pivot {
			tips = append(tips, l)
		}
	}
	return pivot, tips
}

// levelOf derives the new block's level from its actual parents (spec.md
// §4.5: "level equals 1 + max(parent levels)"), the same invariant dagmgr
// re-checks at admission time.
func (p *DagProposer) levelOf(pivot types.Hash, tips []types.Hash) uint64 {
	maxParentLevel, ok := p.graph.Level(pivot)
	if !ok {
		return 0
	}
	for _, tip := range tips {
		if lvl, ok := p.graph.Level(tip); ok && lvl > maxParentLevel {
			maxParentLevel = lvl
		}
	}
	return maxParentLevel + 1
}

func shardOf(addr types.Address, numShards uint64) uint64 {
	if numShards == 0 {
		return 0
	}
	var sum uint64
	for _, b := range addr {
		sum = sum*31 + uint64(b)
	}
	return sum % numShards
}
