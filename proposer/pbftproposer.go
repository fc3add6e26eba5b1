package proposer

import (
	"github.com/taraxa-go/dagbft/dag"
	"github.com/taraxa-go/dagbft/types"
)

// PbftProposalConfig carries the chain_config.pbft knobs that shape anchor
// selection (spec §6).
type PbftProposalConfig struct {
	DagBlocksSize    uint64
	GhostPathMoveBack uint64
	GasLimit         uint64
}

// findClosestAnchor re-anchors after gas-cap clipping drops trailing DAG
// blocks from dag_order: it walks the clipped order backward looking for
// the last vertex that is still on the ghost path, falling back to
// ghost[1] (the block just after the previous anchor) if none of the
// clipped order is on the path. Grounded verbatim on propose.cpp's
// findClosestAnchor.
func findClosestAnchor(ghost []types.Hash, dagOrder []types.Hash, included int) types.Hash {
	onGhost := make(map[types.Hash]bool, len(ghost))
	for _, h := range ghost {
		onGhost[h] = true
	}
	for i := included; i > 0; i-- {
		if onGhost[dagOrder[i-1]] {
			return dagOrder[i-1]
		}
	}
	if len(ghost) > 1 {
		return ghost[1]
	}
	return types.ZeroHash
}

// ProposePbftBlock selects a DAG anchor by walking the ghost path back
// GhostPathMoveBack steps from the tip, clips the resulting DAG order by
// GasLimit, re-anchoring via findClosestAnchor if clipping dropped any
// blocks, and returns the chosen anchor, the (possibly re-derived) DAG
// order, and the transaction hashes to include (deduplicated, in DAG
// order). Returns (ZeroHash, nil, nil, nil) when no new DAG blocks exist
// since the last anchor, signalling a null-anchor PBFT block proposal.
func ProposePbftBlock(graph *dag.Dag, lastAnchor types.Hash, cfg PbftProposalConfig, lookup func(types.Hash) *types.DagBlock) (anchor types.Hash, dagOrder []types.Hash, txHashes []types.Hash, err error) {
	ghost, err := graph.GhostPath(lastAnchor)
	if err != nil {
		return types.Hash{}, nil, nil, err
	}
	if len(ghost) == 0 {
		return types.ZeroHash, nil, nil, nil
	}

	var candidate types.Hash
	if uint64(len(ghost)) <= cfg.DagBlocksSize {
		idx := 0
		if uint64(len(ghost)) >= cfg.GhostPathMoveBack+1 {
			idx = len(ghost) - 1 - int(cfg.GhostPathMoveBack)
		}
		for idx < len(ghost)-1 && ghost[idx] == lastAnchor {
			idx++
		}
		candidate = ghost[idx]
	} else {
		candidate = ghost[cfg.DagBlocksSize-1]
	}

	if candidate == lastAnchor || candidate == types.ZeroHash {
		return types.ZeroHash, nil, nil, nil
	}

	nonFinalized := graph.NonFinalized()
	order, err := graph.ComputeOrder(candidate, nonFinalized)
	if err != nil {
		return types.Hash{}, nil, nil, err
	}

	included, txs := clipByGas(order, cfg.GasLimit, lookup)

	if included != len(order) {
		reAnchor := findClosestAnchor(ghost, order, included)
		if reAnchor == types.ZeroHash {
			return types.Hash{}, nil, nil, errEmptyGhostPath
		}
		candidate = reAnchor
		order, err = graph.ComputeOrder(candidate, nonFinalized)
		if err != nil {
			return types.Hash{}, nil, nil, err
		}
		_, txs = clipByGas(order, cfg.GasLimit, lookup)
	}
	if len(txs) == 0 {
		// No single DAG block fit the cap on its own: fall back to every
		// transaction in the (now re-anchored) order, deduplicated, the
		// same fallback propose.cpp takes when trx_hashes ends up empty.
		txs = dedupedTxHashes(order, lookup)
	}

	return candidate, order, txs, nil
}

// clipByGas accumulates transactions from dagOrder's blocks, deduplicating
// by hash, until the running gas total would exceed gasLimit; it returns
// how many DAG blocks were fully included before clipping and the
// collected (possibly empty, if the very first block already overflows)
// transaction list.
func clipByGas(dagOrder []types.Hash, gasLimit uint64, lookup func(types.Hash) *types.DagBlock) (included int, txs []types.Hash) {
	seen := make(map[types.Hash]bool)
	var total uint64
	for i, blkHash := range dagOrder {
		blk := lookup(blkHash)
		if blk == nil {
			continue
		}
		var blockWeight uint64
		for _, g := range blk.GasEstimates {
			blockWeight += g
		}
		if total+blockWeight > gasLimit {
			return i, txs
		}
		total += blockWeight
		for _, txHash := range blk.TxHashes {
			if !seen[txHash] {
				seen[txHash] = true
				txs = append(txs, txHash)
			}
		}
	}
	return len(dagOrder), txs
}

func dedupedTxHashes(dagOrder []types.Hash, lookup func(types.Hash) *types.DagBlock) []types.Hash {
	seen := make(map[types.Hash]bool)
	var txs []types.Hash
	for _, blkHash := range dagOrder {
		blk := lookup(blkHash)
		if blk == nil {
			continue
		}
		for _, txHash := range blk.TxHashes {
			if !seen[txHash] {
				seen[txHash] = true
				txs = append(txs, txHash)
			}
		}
	}
	return txs
}
