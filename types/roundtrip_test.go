package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDagBlockEncodeDeterministic(t *testing.T) {
	b := &DagBlock{
		Pivot:        Hash{1},
		Tips:         []Hash{{2}, {3}},
		Level:        4,
		TxHashes:     []Hash{{5}},
		GasEstimates: []uint64{21000},
		Vdf:          VdfProof{DifficultyBound: 10, Solution: []byte("sol"), Level: 4, ParentPivot: Hash{1}},
		Proposer:     Address{9},
		Signature:    []byte("sig"),
	}
	h1 := b.Hash()
	h2 := b.Hash()
	require.Equal(t, h1, h2)

	other := *b
	other.Level = 5
	require.NotEqual(t, h1, other.Hash())
}

func TestTransactionHashIdentity(t *testing.T) {
	tx := &Transaction{Nonce: 1, Value: 100, GasLimit: 21000, GasPrice: 1, Payload: []byte{1, 2}, Sender: Address{1}}
	require.Equal(t, tx.Hash(), tx.Hash())
}

func TestOrderHashOfDeterministic(t *testing.T) {
	dagOrder := []Hash{{1}, {2}}
	txOrder := []Hash{{3}}
	require.Equal(t, OrderHashOf(dagOrder, txOrder), OrderHashOf(dagOrder, txOrder))
	require.NotEqual(t, OrderHashOf(dagOrder, txOrder), OrderHashOf(txOrder, dagOrder))
}

func TestDagBlockEncodeDecodeRoundTrip(t *testing.T) {
	b := &DagBlock{
		Pivot:        Hash{1},
		Tips:         []Hash{{2}, {3}},
		Level:        4,
		TxHashes:     []Hash{{5}, {6}},
		GasEstimates: []uint64{21000, 30000},
		Vdf:          VdfProof{DifficultyBound: 10, Solution: []byte("sol"), Level: 4, ParentPivot: Hash{1}, PeriodSeed: Hash{8}},
		Proposer:     Address{9},
		Signature:    []byte("sig"),
	}
	enc, err := EncodeDagBlock(b)
	require.NoError(t, err)
	got, err := DecodeDagBlock(enc)
	require.NoError(t, err)
	require.Equal(t, b.Hash(), got.Hash())
	require.Equal(t, b, got)
}

func TestTransactionEncodeDecodeRoundTrip(t *testing.T) {
	recv := Address{3}
	tx := &Transaction{Nonce: 1, Value: 100, GasLimit: 21000, GasPrice: 1, Receiver: &recv, Payload: []byte{1, 2}, Sender: Address{1}, Signature: []byte("sig")}
	enc, err := EncodeTransaction(tx)
	require.NoError(t, err)
	got, err := DecodeTransaction(enc)
	require.NoError(t, err)
	require.Equal(t, tx.Hash(), got.Hash())
	require.Equal(t, tx, got)
}

func TestTransactionEncodeDecodeRoundTripContractCreation(t *testing.T) {
	tx := &Transaction{Nonce: 1, GasLimit: 21000, GasPrice: 1, Payload: []byte{1}, Sender: Address{1}}
	enc, err := EncodeTransaction(tx)
	require.NoError(t, err)
	got, err := DecodeTransaction(enc)
	require.NoError(t, err)
	require.Nil(t, got.Receiver)
}

func TestVoteEncodeDecodeRoundTrip(t *testing.T) {
	v := &Vote{Round: 1, Period: 2, Step: 3, Type: VoteCert, BlockHash: Hash{4}, VrfProof: []byte("vrf"), Voter: Address{5}, Signature: []byte("sig")}
	enc, err := EncodeVote(v)
	require.NoError(t, err)
	got, err := DecodeVote(enc)
	require.NoError(t, err)
	require.Equal(t, v.Hash(), got.Hash())
	require.Equal(t, v.Round, got.Round)
	require.Equal(t, v.VrfProof, got.VrfProof)
}

func TestPbftBlockEncodeDecodeRoundTrip(t *testing.T) {
	b := &PbftBlock{Period: 1, PreviousBlockHash: Hash{1}, AnchorHash: Hash{2}, OrderHash: Hash{3}, Proposer: Address{4}, RewardVoteHashes: []Hash{{5}, {6}}, Signature: []byte("sig")}
	enc, err := EncodePbftBlock(b)
	require.NoError(t, err)
	got, err := DecodePbftBlock(enc)
	require.NoError(t, err)
	require.Equal(t, b.Hash(), got.Hash())
	require.Equal(t, b, got)
}

func TestPeriodDataEncodeDecodeRoundTrip(t *testing.T) {
	block := &PbftBlock{Period: 1, OrderHash: Hash{1}}
	vote := &Vote{Round: 1, Period: 1, Step: 3, Type: VoteCert, BlockHash: Hash{2}, Voter: Address{3}}
	dagBlk := &DagBlock{Pivot: Hash{9}, Level: 1}
	tx := &Transaction{Nonce: 1, GasLimit: 21000, GasPrice: 1, Sender: Address{1}}

	p := &PeriodData{Block: block, CertVotes: []*Vote{vote}, DagBlocks: []*DagBlock{dagBlk}, Transactions: []*Transaction{tx}}
	enc, err := EncodePeriodData(p)
	require.NoError(t, err)
	got, err := DecodePeriodData(enc)
	require.NoError(t, err)
	require.Equal(t, p.Block.Hash(), got.Block.Hash())
	require.Len(t, got.CertVotes, 1)
	require.Equal(t, vote.Hash(), got.CertVotes[0].Hash())
	require.Len(t, got.DagBlocks, 1)
	require.Equal(t, dagBlk.Hash(), got.DagBlocks[0].Hash())
	require.Len(t, got.Transactions, 1)
	require.Equal(t, tx.Hash(), got.Transactions[0].Hash())
}

func TestVoteSignedPayloadExcludesVrfProof(t *testing.T) {
	v1 := &Vote{Round: 1, Period: 1, Step: 2, Type: VoteSoft, BlockHash: Hash{7}, VrfProof: []byte("a")}
	v2 := *v1
	v2.VrfProof = []byte("different proof bytes")
	require.Equal(t, v1.SignedPayload(), v2.SignedPayload())
	require.NotEqual(t, v1.Hash(), v2.Hash())
}
