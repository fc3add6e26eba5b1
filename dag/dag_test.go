package dag

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taraxa-go/dagbft/types"
)

func block(pivot types.Hash, tips []types.Hash, marker byte) *types.DagBlock {
	return &types.DagBlock{Pivot: pivot, Tips: tips, Level: 1, Proposer: types.Address{marker}}
}

// TestScenarioS1 implements spec.md §8 scenario S1 (linear ordering).
func TestScenarioS1(t *testing.T) {
	g := types.ZeroHash
	d := New(g)

	a := block(g, nil, 1)
	require.NoError(t, d.AddBlock(a))
	aHash := a.Hash()

	b := block(aHash, nil, 2)
	require.NoError(t, d.AddBlock(b))
	bHash := b.Hash()

	c := block(bHash, nil, 3)
	require.NoError(t, d.AddBlock(c))
	cHash := c.Hash()

	path, err := d.GhostPath(g)
	require.NoError(t, err)
	require.Equal(t, []types.Hash{g, aHash, bHash, cHash}, path)

	order, err := d.ComputeOrder(cHash, []types.Hash{aHash, bHash, cHash})
	require.NoError(t, err)
	require.Equal(t, []types.Hash{aHash, bHash, cHash}, order)
}

// TestScenarioS2 implements spec.md §8 scenario S2 (tie break by hash, then
// weight breaks the tie).
func TestScenarioS2(t *testing.T) {
	g := types.ZeroHash
	d := New(g)

	// Try both proposer markers to find an assignment where hash(X) <
	// hash(Y), since the scenario is defined in terms of that relation.
	x := block(g, nil, 0xA0)
	y := block(g, nil, 0xB0)
	xHash, yHash := x.Hash(), y.Hash()
	if string(xHash[:]) > string(yHash[:]) {
		x, y = y, x
		xHash, yHash = yHash, xHash
	}
	require.NoError(t, d.AddBlock(x))
	require.NoError(t, d.AddBlock(y))

	path, err := d.GhostPath(g)
	require.NoError(t, err)
	require.Equal(t, []types.Hash{g, xHash}, path) // tie -> smaller hash wins

	y1 := block(yHash, nil, 0xC0)
	require.NoError(t, d.AddBlock(y1))
	y1Hash := y1.Hash()

	path, err = d.GhostPath(g)
	require.NoError(t, err)
	require.Equal(t, []types.Hash{g, yHash, y1Hash}, path) // subtree(Y) now heavier
}

func TestAddBlockRejectsUnknownPivot(t *testing.T) {
	d := New(types.ZeroHash)
	b := block(types.Hash{0xFF}, nil, 1)
	require.Error(t, d.AddBlock(b))
}

func TestLeavesSortedAscending(t *testing.T) {
	g := types.ZeroHash
	d := New(g)
	a := block(g, nil, 1)
	require.NoError(t, d.AddBlock(a))
	leaves := d.Leaves()
	require.Len(t, leaves, 1)
	require.Equal(t, a.Hash(), leaves[0])

	b := block(g, nil, 2)
	require.NoError(t, d.AddBlock(b))
	leaves = d.Leaves()
	require.Len(t, leaves, 2)
	require.ElementsMatch(t, []types.Hash{a.Hash(), b.Hash()}, leaves)
	require.Less(t, string(leaves[0][:]), string(leaves[1][:]))
}

func TestBlockReturnsAdmittedBlockOrNil(t *testing.T) {
	g := types.ZeroHash
	d := New(g)
	a := block(g, nil, 1)
	require.NoError(t, d.AddBlock(a))

	require.Equal(t, a, d.Block(a.Hash()))
	require.Nil(t, d.Block(types.Hash{0xAB}))
	require.Nil(t, d.Block(g))
}

func TestLevelReportsGenesisAsZeroAndUnknownAsAbsent(t *testing.T) {
	g := types.ZeroHash
	d := New(g)
	a := &types.DagBlock{Pivot: g, Level: 1, Proposer: types.Address{1}}
	require.NoError(t, d.AddBlock(a))

	lvl, ok := d.Level(g)
	require.True(t, ok)
	require.Equal(t, uint64(0), lvl)

	lvl, ok = d.Level(a.Hash())
	require.True(t, ok)
	require.Equal(t, uint64(1), lvl)

	_, ok = d.Level(types.Hash{0xAB})
	require.False(t, ok)
}

func TestNonFinalizedExcludesGenesis(t *testing.T) {
	g := types.ZeroHash
	d := New(g)
	a := block(g, nil, 1)
	require.NoError(t, d.AddBlock(a))
	b := block(a.Hash(), nil, 2)
	require.NoError(t, d.AddBlock(b))

	require.ElementsMatch(t, []types.Hash{a.Hash(), b.Hash()}, d.NonFinalized())
}
