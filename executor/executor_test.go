package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taraxa-go/dagbft/dag"
	"github.com/taraxa-go/dagbft/pbftchain"
	"github.com/taraxa-go/dagbft/txpool"
	"github.com/taraxa-go/dagbft/types"
	"github.com/taraxa-go/dagbft/vote"
)

var errFakeStoreFailure = errors.New("fake store failure")

type fakeStore struct {
	committed []*Batch
	failNext  bool
}

func (s *fakeStore) CommitPeriod(b *Batch) error {
	if s.failNext {
		return errFakeStoreFailure
	}
	s.committed = append(s.committed, b)
	return nil
}

func newFixture(t *testing.T) (*dag.Dag, *types.DagBlock, *types.Transaction) {
	genesis := types.Hash{0xEE}
	graph := dag.New(genesis)

	tx := &types.Transaction{Nonce: 1, GasLimit: 21000, GasPrice: 1, Sender: types.Address{1}}
	blk := &types.DagBlock{Pivot: genesis, Level: 1, TxHashes: []types.Hash{tx.Hash()}}
	require.NoError(t, graph.AddBlock(blk))
	return graph, blk, tx
}

func newExecutor(graph *dag.Dag, blk *types.DagBlock, tx *types.Transaction, store Store) (*Executor, *pbftchain.Chain, *txpool.Pool) {
	chain := pbftchain.New()
	pool := txpool.New(16)
	votes := vote.New(0)

	dagBlockOf := func(h types.Hash) *types.DagBlock {
		if h == blk.Hash() {
			return blk
		}
		return nil
	}
	txOf := func(h types.Hash) *types.Transaction {
		if h == tx.Hash() {
			return tx
		}
		return nil
	}
	return New(graph, chain, pool, votes, store, dagBlockOf, txOf, 0), chain, pool
}

func TestCommitAssemblesBatchAndAdvancesChain(t *testing.T) {
	graph, blk, tx := newFixture(t)
	store := &fakeStore{}
	exec, chain, _ := newExecutor(graph, blk, tx, store)

	dagOrder, err := graph.ComputeOrder(blk.Hash(), []types.Hash{blk.Hash()})
	require.NoError(t, err)
	orderHash := types.OrderHashOf(dagOrder, []types.Hash{tx.Hash()})

	block := &types.PbftBlock{Period: 1, AnchorHash: blk.Hash(), OrderHash: orderHash}

	batch, err := exec.Commit(block, nil)
	require.NoError(t, err)
	require.Len(t, batch.DagBlocks, 1)
	require.Len(t, batch.Transactions, 1)
	require.Len(t, batch.Receipts, 1)
	require.True(t, batch.Receipts[0].Status)
	require.Equal(t, uint64(21000), batch.Receipts[0].GasUsed)

	require.Equal(t, block.Hash(), chain.LastBlockHash())
	require.Len(t, store.committed, 1)
}

func TestCommitRejectsWrongPreviousHash(t *testing.T) {
	graph, blk, tx := newFixture(t)
	exec, chain, _ := newExecutor(graph, blk, tx, &fakeStore{})
	chain.Finalize(&types.PbftBlock{Period: 1})

	bad := &types.PbftBlock{Period: 2, PreviousBlockHash: types.Hash{1}}
	_, err := exec.Commit(bad, nil)
	require.Error(t, err)
}

func TestCommitRejectsOrderHashMismatch(t *testing.T) {
	graph, blk, tx := newFixture(t)
	exec, _, _ := newExecutor(graph, blk, tx, &fakeStore{})

	block := &types.PbftBlock{Period: 1, AnchorHash: blk.Hash(), OrderHash: types.Hash{0xFF}}
	_, err := exec.Commit(block, nil)
	require.ErrorIs(t, err, ErrOrderHashMismatch)
}

func TestCommitEmptyPeriodHasNoAnchor(t *testing.T) {
	graph, blk, tx := newFixture(t)
	exec, chain, _ := newExecutor(graph, blk, tx, &fakeStore{})

	orderHash := types.OrderHashOf(nil, nil)
	block := &types.PbftBlock{Period: 1, OrderHash: orderHash}

	batch, err := exec.Commit(block, nil)
	require.NoError(t, err)
	require.Empty(t, batch.DagBlocks)
	require.Equal(t, block.Hash(), chain.LastBlockHash())
}

func TestCommitDoesNotAdvanceChainOnStoreFailure(t *testing.T) {
	graph, blk, tx := newFixture(t)
	store := &fakeStore{failNext: true}
	exec, chain, _ := newExecutor(graph, blk, tx, store)

	orderHash := types.OrderHashOf(nil, nil)
	block := &types.PbftBlock{Period: 1, OrderHash: orderHash}

	_, err := exec.Commit(block, nil)
	require.Error(t, err)
	require.Equal(t, types.ZeroHash, chain.LastBlockHash())
}
