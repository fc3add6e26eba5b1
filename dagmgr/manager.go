// Package dagmgr validates, queues, and admits incoming DAG blocks by
// level (spec.md §4.5). The verified queue is level-ordered: a block is
// only handed to the DAG graph once its pivot and all tips are already
// attached.
package dagmgr

import (
	"container/heap"
	"errors"
	"sort"
	"sync"

	"github.com/luxfi/log"

	"github.com/taraxa-go/dagbft/dag"
	"github.com/taraxa-go/dagbft/types"
	"github.com/taraxa-go/dagbft/validator"
)

// Sentinel errors per spec.md §7's error-kind taxonomy.
var (
	ErrInvalidProof     = errors.New("dagmgr: invalid proof")
	ErrUnknownAncestor  = errors.New("dagmgr: unknown ancestor")
	ErrMalformedInput   = errors.New("dagmgr: malformed input")
	ErrDuplicate        = errors.New("dagmgr: duplicate block")
	ErrQueueFull        = errors.New("dagmgr: backpressure, queue full")
	ErrCancelled        = errors.New("dagmgr: cancelled")
)

// TxLookup resolves whether a transaction hash is known to the pool, and
// VdfVerifier checks a VDF proof against its declared difficulty. Both are
// injected so dagmgr stays independent of txpool/vdf's concrete types
// beyond what it needs.
type TxLookup func(hash types.Hash) bool
type VdfVerifier func(proof *types.VdfProof) bool
type SignatureVerifier func(block *types.DagBlock) bool

// Manager validates, queues and admits DAG blocks.
type Manager struct {
	log      log.Logger
	graph    *dag.Dag
	vset     *validator.Registry
	txKnown  TxLookup
	vdfOK    VdfVerifier
	sigOK    SignatureVerifier
	gasCap   uint64
	maxQueue int

	mu         sync.Mutex
	cond       *sync.Cond
	pending    *levelHeap
	invalid    map[types.Hash]bool
	proposedAt map[types.Address]map[uint64]bool // one proposal per level per proposer
	stopped    bool
}

// New constructs a Manager bound to graph, with the supplied collaborators
// and admission limits.
func New(logger log.Logger, graph *dag.Dag, vset *validator.Registry, txKnown TxLookup, vdfOK VdfVerifier, sigOK SignatureVerifier, gasCap uint64, maxQueue int) *Manager {
	m := &Manager{
		log: logger, graph: graph, vset: vset, txKnown: txKnown, vdfOK: vdfOK, sigOK: sigOK,
		gasCap: gasCap, maxQueue: maxQueue,
		pending:    &levelHeap{},
		invalid:    make(map[types.Hash]bool),
		proposedAt: make(map[types.Address]map[uint64]bool),
	}
	m.cond = sync.NewCond(&m.mu)
	heap.Init(m.pending)
	return m
}

// levelItem is one queued, not-yet-attached block, ordered by level so
// lower levels are preferred (spec: "re-queued with a level-gate so lower
// levels are preferred").
type levelItem struct {
	block *types.DagBlock
}

type levelHeap []*levelItem

func (h levelHeap) Len() int            { return len(h) }
func (h levelHeap) Less(i, j int) bool  { return h[i].block.Level < h[j].block.Level }
func (h levelHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *levelHeap) Push(x interface{}) { *h = append(*h, x.(*levelItem)) }
func (h *levelHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PivotAndTipsValid reports whether block's pivot and all tips are already
// known to the DAG graph.
func (m *Manager) PivotAndTipsValid(block *types.DagBlock) bool {
	if block.Pivot != types.ZeroHash && !m.graph.Has(block.Pivot) {
		return false
	}
	for _, tip := range block.Tips {
		if !m.graph.Has(tip) {
			return false
		}
	}
	return true
}

// levelValid derives the expected level from the pivot's and tips' actual
// levels (spec.md §4.5: "level equals 1 + max(parent levels)"). It can only
// be evaluated once the pivot and every tip are already attached to the
// graph, so callers must gate on PivotAndTipsValid first.
func (m *Manager) levelValid(block *types.DagBlock) bool {
	maxParentLevel, ok := m.graph.Level(block.Pivot)
	if !ok {
		return false
	}
	for _, tip := range block.Tips {
		lvl, ok := m.graph.Level(tip)
		if !ok {
			return false
		}
		if lvl > maxParentLevel {
			maxParentLevel = lvl
		}
	}
	return block.Level == maxParentLevel+1
}

// PushUnverified validates block and enqueues it in the level-ordered
// pending queue; whether its ancestors are attached is checked later, by
// PopVerified.
func (m *Manager) PushUnverified(block *types.DagBlock) error {
	hash := block.Hash()

	if m.invalid[hash] {
		return ErrDuplicate
	}
	if !m.sigOK(block) {
		m.invalid[hash] = true
		return ErrInvalidProof
	}
	if !m.vset.At(block.Level).Eligible(block.Proposer) {
		m.invalid[hash] = true
		return ErrMalformedInput
	}
	if block.Level == 0 {
		// Level 0 is reserved for genesis; the full "1 + max(parent levels)"
		// check needs the pivot/tips attached and happens in PopVerified.
		m.invalid[hash] = true
		return ErrMalformedInput
	}
	if !m.vdfOK(&block.Vdf) {
		m.invalid[hash] = true
		return ErrInvalidProof
	}
	for _, tx := range block.TxHashes {
		if !m.txKnown(tx) {
			m.invalid[hash] = true
			return ErrUnknownAncestor
		}
	}
	if block.TotalGas() > m.gasCap {
		m.invalid[hash] = true
		return ErrMalformedInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxQueue > 0 && m.pending.Len() >= m.maxQueue {
		return ErrQueueFull
	}
	heap.Push(m.pending, &levelItem{block: block})
	m.cond.Signal()
	return nil
}

// removePending splices out the pending entry at index i and restores the
// heap invariant.
func (m *Manager) removePending(i int) {
	(*m.pending)[i] = (*m.pending)[len(*m.pending)-1]
	*m.pending = (*m.pending)[:len(*m.pending)-1]
	heap.Init(m.pending)
}

// PopVerified blocks until a block at level <= levelGate can be attached
// (its pivot and tips are already in the graph), attaches it, and returns
// it. levelGate of 0 means "no gate": accept the lowest-level ready block.
// A block whose declared level doesn't match 1 + max(parent levels) is
// dropped (marked invalid) rather than attached once its parents are known.
func (m *Manager) PopVerified(levelGate uint64) (*types.DagBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		if m.stopped {
			return nil, ErrCancelled
		}
		rejected := false
		sort.Sort(m.pending) // ascending level; a sorted slice is still a valid heap
		for i, it := range *m.pending {
			if levelGate != 0 && it.block.Level > levelGate {
				continue
			}
			if !m.PivotAndTipsValid(it.block) {
				continue
			}
			if !m.levelValid(it.block) {
				m.invalid[it.block.Hash()] = true
				m.removePending(i)
				rejected = true
				break
			}
			m.removePending(i)
			if err := m.graph.AddBlock(it.block); err != nil {
				return nil, err
			}
			return it.block, nil
		}
		if rejected {
			continue
		}
		m.cond.Wait()
	}
}

// Stop wakes any blocked PopVerified caller so the worker can exit at the
// next suspension point.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.cond.Broadcast()
}
