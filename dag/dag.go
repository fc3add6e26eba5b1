// Package dag maintains the in-memory, non-finalized DAG of block
// proposals: vertices are DAG block hashes, edges run from a parent
// (pivot or tip) to its child. It exposes leaves(), compute_order() and
// ghost_path() per spec.md §4.4.
//
// Adapted from the teacher's sync.RWMutex-guarded map-of-blocks idiom
// (package dag's original Block/DAG types); grounded algorithmically on
// original_source/libraries/consensus/dag/src/dag.cpp: Dag::addVEEs (edge
// direction and pivot/tip weighting), Dag::collectLeafVertices
// (out-degree-zero leaves), Dag::computeOrder + Dag::reachable (epfriend
// collection then a DFS topological sort with neighbors sorted before push
// for determinism), and PivotTree::getGhostPath (post-order weight
// accumulation then heaviest-child descent). The tie-break on equal weight
// uses "smaller hash" per spec.md §4.4 rather than the original's
// insertion-index comparison, since spec.md is the authority where the two
// disagree.
package dag

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/taraxa-go/dagbft/types"
)

// vertex is one admitted, non-finalized DAG block and its child adjacency
// within this in-memory graph (edges point parent -> child, matching
// addVEEs).
type vertex struct {
	block    *types.DagBlock
	children []types.Hash
}

// Dag is the non-finalized subgraph. Genesis is the unique ancestor with no
// pivot; every other block's pivot and tips must already be present at
// admission time.
type Dag struct {
	mu       sync.RWMutex
	vertices map[types.Hash]*vertex
	genesis  types.Hash
}

// New constructs a Dag rooted at genesis.
func New(genesis types.Hash) *Dag {
	d := &Dag{vertices: make(map[types.Hash]*vertex)}
	d.vertices[genesis] = &vertex{block: &types.DagBlock{Pivot: types.ZeroHash}}
	d.genesis = genesis
	return d
}

// Genesis returns the DAG's root hash, the fixed anchor every ghost-path
// walk and frontier computation starts from.
func (d *Dag) Genesis() types.Hash {
	return d.genesis
}

// Has reports whether hash is a known, non-finalized vertex.
func (d *Dag) Has(hash types.Hash) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.vertices[hash]
	return ok
}

// Block returns the admitted DagBlock for hash, or nil if absent (the
// genesis vertex, which holds no real block, also returns nil).
func (d *Dag) Block(hash types.Hash) *types.DagBlock {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.vertices[hash]
	if !ok || hash == d.genesis {
		return nil
	}
	return v.block
}

// Level returns hash's DAG level: 0 for the genesis vertex, or the admitted
// block's recorded level otherwise. ok is false if hash is not a known
// vertex (spec.md §4.5's "level equals 1 + max(parent levels)" needs this
// to derive a new block's expected level from its pivot/tips).
func (d *Dag) Level(hash types.Hash) (uint64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.vertices[hash]
	if !ok {
		return 0, false
	}
	if hash == d.genesis {
		return 0, true
	}
	return v.block.Level, true
}

// NonFinalized returns every vertex in the non-finalized subgraph except
// genesis, mirroring the original's non_finalized_blks_ index passed whole
// into getDagBlockOrder (as opposed to just the ghost path).
func (d *Dag) NonFinalized() []types.Hash {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]types.Hash, 0, len(d.vertices))
	for h := range d.vertices {
		if h == d.genesis {
			continue
		}
		out = append(out, h)
	}
	return out
}

// AddBlock admits block, wiring edges from its pivot and tips to it. It
// returns an error if the pivot or any tip is not already present — the
// DAG block manager is responsible for only calling AddBlock once that
// invariant holds.
func (d *Dag) AddBlock(block *types.DagBlock) error {
	hash := block.Hash()
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.vertices[hash]; exists {
		return nil // duplicate admission is a no-op, not an error
	}
	if block.Pivot != types.ZeroHash {
		parent, ok := d.vertices[block.Pivot]
		if !ok {
			return fmt.Errorf("dag: unknown pivot %x", block.Pivot)
		}
		parent.children = append(parent.children, hash)
	}
	for _, tip := range block.Tips {
		parent, ok := d.vertices[tip]
		if !ok {
			return fmt.Errorf("dag: unknown tip %x", tip)
		}
		parent.children = append(parent.children, hash)
	}
	d.vertices[hash] = &vertex{block: block}
	return nil
}

// Leaves returns every vertex with no children (out-degree zero).
func (d *Dag) Leaves() []types.Hash {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var leaves []types.Hash
	for h, v := range d.vertices {
		if len(v.children) == 0 {
			leaves = append(leaves, h)
		}
	}
	sort.Slice(leaves, func(i, j int) bool { return bytes.Compare(leaves[i][:], leaves[j][:]) < 0 })
	return leaves
}

// reachable is a plain DFS over the parent->child adjacency.
func (d *Dag) reachable(from, to types.Hash) bool {
	if from == to {
		return true
	}
	visited := map[types.Hash]bool{from: true}
	stack := []types.Hash{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range d.vertices[cur].children {
			if visited[child] {
				continue
			}
			if child == to {
				return true
			}
			visited[child] = true
			stack = append(stack, child)
		}
	}
	return false
}

// ComputeOrder returns the deterministic topological order of every
// non-finalized vertex that transitively reaches anchor, restricted to the
// supplied candidate set (mirroring the original's per-level
// non_finalized_blks map). Children are visited in ascending hash order so
// the result is stable across nodes.
func (d *Dag) ComputeOrder(anchor types.Hash, nonFinalized []types.Hash) ([]types.Hash, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.vertices[anchor]; !ok {
		return nil, fmt.Errorf("dag: unknown anchor %x", anchor)
	}

	epfriend := map[types.Hash]bool{anchor: true}
	for _, h := range nonFinalized {
		if _, ok := d.vertices[h]; !ok {
			continue
		}
		if d.reachable(h, anchor) {
			epfriend[h] = true
		}
	}

	sortedRoots := make([]types.Hash, 0, len(epfriend))
	for h := range epfriend {
		sortedRoots = append(sortedRoots, h)
	}
	sort.Slice(sortedRoots, func(i, j int) bool { return bytes.Compare(sortedRoots[i][:], sortedRoots[j][:]) < 0 })

	visited := make(map[types.Hash]bool)
	var order []types.Hash

	var dfs func(types.Hash)
	dfs = func(v types.Hash) {
		if visited[v] {
			return
		}
		visited[v] = true
		var neighbors []types.Hash
		for _, child := range d.vertices[v].children {
			if !epfriend[child] || visited[child] {
				continue
			}
			neighbors = append(neighbors, child)
		}
		sort.Slice(neighbors, func(i, j int) bool { return bytes.Compare(neighbors[i][:], neighbors[j][:]) < 0 })
		for _, n := range neighbors {
			dfs(n)
		}
		order = append(order, v)
	}
	for _, root := range sortedRoots {
		dfs(root)
	}

	// dfs appends children before their parent (post-order); reversing
	// yields parent-before-descendant, matching the original's final
	// std::reverse.
	reversed := make([]types.Hash, len(order))
	for i, h := range order {
		reversed[len(order)-1-i] = h
	}
	return reversed, nil
}

// GhostPath returns the heaviest-subtree path starting at root: post-order
// traversal accumulates weight = 1 + sum(children weight), then the walk
// descends into the heaviest child at each step, breaking ties by smaller
// hash.
func (d *Dag) GhostPath(root types.Hash) ([]types.Hash, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.vertices[root]; !ok {
		return nil, fmt.Errorf("dag: unknown root %x", root)
	}

	var postOrder []types.Hash
	stack := []types.Hash{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		postOrder = append(postOrder, cur)
		stack = append(stack, d.vertices[cur].children...)
	}
	for i, j := 0, len(postOrder)-1; i < j; i, j = i+1, j-1 {
		postOrder[i], postOrder[j] = postOrder[j], postOrder[i]
	}

	weight := make(map[types.Hash]int)
	for _, v := range postOrder {
		total := 0
		for _, child := range d.vertices[v].children {
			if w, ok := weight[child]; ok {
				total += w
			}
		}
		weight[v] = total + 1
	}

	var path []types.Hash
	cur := root
	for {
		path = append(path, cur)
		heaviest := 0
		var next types.Hash
		found := false
		for _, child := range d.vertices[cur].children {
			w, ok := weight[child]
			if !ok {
				continue
			}
			switch {
			case w > heaviest:
				heaviest, next, found = w, child, true
			case w == heaviest && found && bytes.Compare(child[:], next[:]) < 0:
				next = child
			}
		}
		if !found {
			break
		}
		cur = next
	}
	return path, nil
}
