package storage

import (
	"testing"

	"github.com/luxfi/database/memdb"
	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	dagbftlog "github.com/taraxa-go/dagbft/log"
	"github.com/taraxa-go/dagbft/executor"
	"github.com/taraxa-go/dagbft/types"
)

func newTestStore() *Store {
	return New(memdb.New())
}

func TestChainTipRoundTrip(t *testing.T) {
	s := newTestStore()
	tip, err := s.ChainTip()
	require.NoError(t, err)
	require.Equal(t, types.ZeroHash, tip)

	b := s.NewBatch()
	h := types.Hash{7}
	require.NoError(t, b.SetChainTip(h))
	require.NoError(t, b.Commit())

	tip, err = s.ChainTip()
	require.NoError(t, err)
	require.Equal(t, h, tip)
}

func TestCommitPeriodWritesAllColumns(t *testing.T) {
	s := newTestStore()

	tx := &types.Transaction{Nonce: 1, GasLimit: 21000, GasPrice: 1, Sender: types.Address{1}}
	dagBlk := &types.DagBlock{Pivot: types.Hash{9}, Level: 1, TxHashes: []types.Hash{tx.Hash()}}
	block := &types.PbftBlock{Period: 1, OrderHash: types.Hash{3}}
	certVotes := []*types.Vote{{Round: 1, Period: 0, Step: 3, Type: types.VoteCert, Voter: types.Address{2}}}

	batch := &executor.Batch{
		Block:        block,
		CertVotes:    certVotes,
		DagBlocks:    []*types.DagBlock{dagBlk},
		Transactions: []*types.Transaction{tx},
		Receipts:     []executor.Receipt{{TxHash: tx.Hash(), Status: true, GasUsed: 21000}},
	}

	require.NoError(t, s.CommitPeriod(batch))

	tip, err := s.ChainTip()
	require.NoError(t, err)
	require.Equal(t, block.Hash(), tip)

	h, ok, err := s.PbftBlockHashByPeriod(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, block.Hash(), h)

	dh := dagBlk.Hash()
	raw, err := s.Get(ColumnDagBlocks, dh[:])
	require.NoError(t, err)
	got, err := types.DecodeDagBlock(raw)
	require.NoError(t, err)
	require.Equal(t, dagBlk.Hash(), got.Hash())

	th := tx.Hash()
	hasReceipt, err := s.Has(ColumnReceipts, th[:])
	require.NoError(t, err)
	require.True(t, hasReceipt)

	hasLoc, err := s.Has(ColumnTransactionLocation, th[:])
	require.NoError(t, err)
	require.True(t, hasLoc)
}

type fixedMigration struct {
	id      string
	version uint32
	ran     *bool
}

func (m fixedMigration) Id() string      { return m.id }
func (m fixedMigration) DbVersion() uint32 { return m.version }
func (m fixedMigration) Run(store *Store, batch *WriteBatch, log luxlog.Logger) error {
	*m.ran = true
	return batch.Put(ColumnDagBlocks, []byte("migrated"), []byte{1})
}

func TestMigratorSkipsAlreadyApplied(t *testing.T) {
	s := newTestStore()
	ran := false
	mig := fixedMigration{id: "m1", version: 1, ran: &ran}

	m := NewMigrator(s, dagbftlog.NewNoOpLogger(), mig)
	require.NoError(t, m.Run())
	require.True(t, ran)

	applied, err := s.Has(ColumnMigrations, []byte("m1"))
	require.NoError(t, err)
	require.True(t, applied)

	ran = false
	m2 := NewMigrator(s, dagbftlog.NewNoOpLogger(), mig)
	require.NoError(t, m2.Run())
	require.False(t, ran, "already-applied migration must be skipped")
}
