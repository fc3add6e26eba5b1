package pbft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taraxa-go/dagbft/proposer"
	"github.com/taraxa-go/dagbft/types"
)

type fakeChain struct {
	finalized  map[types.Hash]bool
	unverified map[types.Hash]*types.PbftBlock
	valid      bool
	last       types.Hash
}

func newFakeChain() *fakeChain {
	return &fakeChain{finalized: map[types.Hash]bool{}, unverified: map[types.Hash]*types.PbftBlock{}, valid: true}
}

func (f *fakeChain) FindInChain(h types.Hash) bool           { return f.finalized[h] }
func (f *fakeChain) GetUnverified(h types.Hash) *types.PbftBlock { return f.unverified[h] }
func (f *fakeChain) CheckValidation(*types.PbftBlock) bool    { return f.valid }
func (f *fakeChain) LastBlockHash() types.Hash                { return f.last }

func alwaysVerifiable(types.Hash) bool { return true }
func neverVerifiable(types.Hash) bool  { return false }

func TestFinishVotesCertVotedValueWhenPresent(t *testing.T) {
	r := NewRound(3, 500*time.Millisecond, types.ZeroHash, false)
	r.LastCertVotedValue = types.Hash{7}
	chain := newFakeChain()
	vote, place := Finish(r, chain, alwaysVerifiable)
	require.True(t, place)
	require.Equal(t, types.Hash{7}, vote)
}

func TestFinishVotesNullWhenGivingUp(t *testing.T) {
	r := NewRound(3, 500*time.Millisecond, types.ZeroHash, true) // previous round next-voted null
	chain := newFakeChain()
	vote, place := Finish(r, chain, alwaysVerifiable)
	require.True(t, place)
	require.Equal(t, types.ZeroHash, vote)
}

func TestFinishVotesOwnStartingValueOtherwise(t *testing.T) {
	r := NewRound(3, 500*time.Millisecond, types.Hash{5}, false)
	r.OwnStartingValueForRound = types.Hash{5}
	chain := newFakeChain()
	vote, place := Finish(r, chain, alwaysVerifiable)
	require.True(t, place)
	require.Equal(t, types.Hash{5}, vote)
}

func TestCertifyRequires2tPlus1AndValidity(t *testing.T) {
	r := NewRound(2, 500*time.Millisecond, types.ZeroHash, false)
	chain := newFakeChain()
	block := &types.PbftBlock{}
	chain.unverified[block.Hash()] = block
	chain.valid = true

	_, place := Certify(r, block.Hash(), false, chain, alwaysVerifiable)
	require.False(t, place, "below 2t+1 threshold must not cert-vote")

	vote, place := Certify(r, block.Hash(), true, chain, alwaysVerifiable)
	require.True(t, place)
	require.Equal(t, block.Hash(), vote)
	require.Equal(t, block.Hash(), r.LastCertVotedValue)
}

func TestCertifyRejectsWhenUnverifiable(t *testing.T) {
	r := NewRound(2, 500*time.Millisecond, types.ZeroHash, false)
	chain := newFakeChain()
	block := &types.PbftBlock{}
	chain.unverified[block.Hash()] = block

	_, place := Certify(r, block.Hash(), true, chain, neverVerifiable)
	require.False(t, place)
	require.Equal(t, types.ZeroHash, r.LastCertVotedValue)
}

func TestPollingVotesSoftOnceThenStaysSilent(t *testing.T) {
	r := NewRound(2, 500*time.Millisecond, types.ZeroHash, false)
	r.StepID = 5
	chain := newFakeChain()

	result := Polling(r, types.Hash{9}, chain, alwaysVerifiable)
	require.True(t, result.PlaceVote)
	require.Equal(t, types.Hash{9}, result.Vote)
	require.True(t, r.NextVotedSoftValue)

	result2 := Polling(r, types.Hash{9}, chain, alwaysVerifiable)
	require.False(t, result2.PlaceVote)
}

func TestGiveUpNextVotedBlockWhenPreviousRoundNull(t *testing.T) {
	r := NewRound(2, 500*time.Millisecond, types.ZeroHash, true)
	chain := newFakeChain()
	require.True(t, giveUpNextVotedBlock(r, chain, alwaysVerifiable))
}

func TestGiveUpNextVotedBlockWhenAlreadyFinalized(t *testing.T) {
	r := NewRound(2, 500*time.Millisecond, types.Hash{3}, false)
	chain := newFakeChain()
	chain.finalized[types.Hash{3}] = true
	require.True(t, giveUpNextVotedBlock(r, chain, alwaysVerifiable))
}

func TestProposeSkipsRoundOne(t *testing.T) {
	r := NewRound(1, 500*time.Millisecond, types.ZeroHash, false)
	_, place := Propose(r, nil, func() types.Hash { return types.ZeroHash }, proposer.PbftProposalConfig{}, nil, newFakeChain(), nil, alwaysVerifiable, types.Address{})
	require.False(t, place)
}
