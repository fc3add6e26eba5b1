package dagmgr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taraxa-go/dagbft/dag"
	"github.com/taraxa-go/dagbft/log"
	"github.com/taraxa-go/dagbft/types"
	"github.com/taraxa-go/dagbft/validator"
)

func newTestManager(t *testing.T) (*Manager, *dag.Dag) {
	g := dag.New(types.ZeroHash)
	reg := validator.NewRegistry(0, func(uint64) []*validator.Validator {
		return []*validator.Validator{{Address: types.Address{1}, Weight: 10}}
	})
	m := New(log.NewNoOpLogger(), g, reg,
		func(types.Hash) bool { return true },
		func(*types.VdfProof) bool { return true },
		func(*types.DagBlock) bool { return true },
		1_000_000, 0)
	return m, g
}

func TestPushPopVerified(t *testing.T) {
	m, _ := newTestManager(t)
	b := &types.DagBlock{Pivot: types.ZeroHash, Level: 1, Proposer: types.Address{1}}
	require.NoError(t, m.PushUnverified(b))

	out, err := m.PopVerified(0)
	require.NoError(t, err)
	require.Equal(t, b.Hash(), out.Hash())
}

func TestPushRejectsUnknownTx(t *testing.T) {
	g := dag.New(types.ZeroHash)
	reg := validator.NewRegistry(0, func(uint64) []*validator.Validator {
		return []*validator.Validator{{Address: types.Address{1}, Weight: 10}}
	})
	m := New(log.NewNoOpLogger(), g, reg,
		func(types.Hash) bool { return false },
		func(*types.VdfProof) bool { return true },
		func(*types.DagBlock) bool { return true },
		1_000_000, 0)
	b := &types.DagBlock{Pivot: types.ZeroHash, Level: 1, Proposer: types.Address{1}, TxHashes: []types.Hash{{9}}}
	require.ErrorIs(t, m.PushUnverified(b), ErrUnknownAncestor)
}

func TestPopVerifiedWaitsForAncestors(t *testing.T) {
	m, _ := newTestManager(t)
	child := &types.DagBlock{Pivot: types.Hash{0xFF}, Level: 2, Proposer: types.Address{1}}
	require.NoError(t, m.PushUnverified(child))

	done := make(chan *types.DagBlock, 1)
	go func() {
		b, err := m.PopVerified(0)
		if err == nil {
			done <- b
		}
	}()

	select {
	case <-done:
		t.Fatal("should not pop before pivot is attached")
	case <-time.After(50 * time.Millisecond):
	}
	m.Stop()
}
