package pbft

import "github.com/taraxa-go/dagbft/types"

// Finish implements even steps ≥ 4 (spec.md §4.9 Finish): next-vote the
// cert-voted value if the node has one; otherwise next-vote null if giving
// up, else next-vote the node's own starting value for the round — and
// possibly adopt the previous round's next-voted value as the new starting
// value first, per finish.cpp's reconciliation.
func Finish(r *RoundState, chain ChainReader, verifiable RewardVoteChecker) (vote types.Hash, place bool) {
	if r.LastCertVotedValue != types.ZeroHash {
		return r.LastCertVotedValue, true
	}

	giveUpSoftInFirstFinish := r.LastCertVotedValue == types.ZeroHash &&
		r.OwnStartingValueForRound == r.PreviousRoundNextVotedValue &&
		giveUpSoftVotedBlock(r, chain, verifiable) &&
		!verifiable(r.OwnStartingValueForRound)

	if r.Round >= 2 && (giveUpNextVotedBlock(r, chain, verifiable) || giveUpSoftInFirstFinish) {
		return types.ZeroHash, true
	}

	reconcileStartingValue(r, chain, verifiable)
	if r.OwnStartingValueForRound == types.ZeroHash {
		return types.ZeroHash, false
	}
	return r.OwnStartingValueForRound, true
}

// reconcileStartingValue is finish.cpp's own_starting_value carry-forward:
// when the node's own starting value diverges from the previous round's
// next-voted value and that value isn't already finalized, adopt it (either
// because the node had nothing of its own, or because the value turns out
// to be viable).
func reconcileStartingValue(r *RoundState, chain ChainReader, verifiable RewardVoteChecker) {
	if r.OwnStartingValueForRound == r.PreviousRoundNextVotedValue {
		return
	}
	if r.PreviousRoundNextVotedValue == types.ZeroHash {
		return
	}
	if chain.FindInChain(r.PreviousRoundNextVotedValue) {
		return
	}
	if r.OwnStartingValueForRound == types.ZeroHash || verifiable(r.PreviousRoundNextVotedValue) {
		r.OwnStartingValueForRound = r.PreviousRoundNextVotedValue
	}
}
