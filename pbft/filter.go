package pbft

import (
	"github.com/taraxa-go/dagbft/types"
	"github.com/taraxa-go/dagbft/vote"
)

// Filter implements step 2 (spec.md §4.9 Filter): among this round's
// propose-votes, identify the leader block as the one whose minimum
// sortition hash (over H(vrf_output ∥ voter ∥ i), i ∈ [1, weight]) is
// smallest, and soft-vote it when the node is giving up on the previous
// round's next-voted value; otherwise re-soft-vote that previous next-voted
// value (if it is non-null) instead.
func Filter(r *RoundState, proposals []*types.Vote, chain ChainReader, verifiable RewardVoteChecker) (result types.Hash, place bool) {
	if giveUpNextVotedBlock(r, chain, verifiable) {
		leader, ok := vote.IdentifyLeaderBlock(eligibleProposals(r, proposals, chain, verifiable))
		if ok {
			r.OwnStartingValueForRound = leader
			updateLastSoftVotedValue(r, leader)
			return leader, true
		}
		return types.ZeroHash, false
	}
	if r.PreviousRoundNextVotedValue != types.ZeroHash {
		updateLastSoftVotedValue(r, r.PreviousRoundNextVotedValue)
		return r.PreviousRoundNextVotedValue, true
	}
	return types.ZeroHash, false
}

// eligibleProposals narrows this round's step-1 propose votes down to the
// candidates filter.cpp's identifyLeaderBlock_ actually scores: not already
// finalized, and not the value the node is in the process of giving up on.
func eligibleProposals(r *RoundState, proposals []*types.Vote, chain ChainReader, verifiable RewardVoteChecker) []*types.Vote {
	var eligible []*types.Vote
	for _, v := range proposals {
		if v.Round != r.Round || v.Step != 1 || v.Type != types.VotePropose {
			continue
		}
		if v.BlockHash == types.ZeroHash {
			continue
		}
		if chain.FindInChain(v.BlockHash) {
			continue
		}
		if v.BlockHash == r.LastSoftVotedValue && giveUpSoftVotedBlock(r, chain, verifiable) {
			continue
		}
		eligible = append(eligible, v)
	}
	return eligible
}
