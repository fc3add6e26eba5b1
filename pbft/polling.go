package pbft

import "github.com/taraxa-go/dagbft/types"

// PollingResult is what an odd step ≥ 5 decides to do: at most one vote to
// place, plus whether a previous-round next-votes rebroadcast is due.
type PollingResult struct {
	Vote              types.Hash
	PlaceVote         bool
	RebroadcastNext   bool
}

// Polling implements odd steps ≥ 5 (spec.md §4.9 Polling): next-vote the
// soft-voted value if the node still holds one and hasn't already
// next-voted soft this round; next-vote null if giving up and hasn't
// already next-voted null; past MaxSteps, periodically signal a previous
// -round next-votes rebroadcast so stalled peers can catch up.
func Polling(r *RoundState, softVotedValue types.Hash, chain ChainReader, verifiable RewardVoteChecker) PollingResult {
	r.SoftVotedBlock = softVotedValue

	giveUpSoftInSecondFinish := r.LastCertVotedValue == types.ZeroHash &&
		r.LastSoftVotedValue == r.PreviousRoundNextVotedValue &&
		giveUpSoftVotedBlock(r, chain, verifiable) &&
		!verifiable(r.SoftVotedBlock)

	var result PollingResult

	if !r.NextVotedSoftValue && r.SoftVotedBlock != types.ZeroHash && !giveUpSoftInSecondFinish {
		result.Vote, result.PlaceVote = r.SoftVotedBlock, true
		r.NextVotedSoftValue = true
	}

	if !r.NextVotedNullBlockHash && r.Round >= 2 && (giveUpSoftInSecondFinish || giveUpNextVotedBlock(r, chain, verifiable)) {
		result.Vote, result.PlaceVote = types.ZeroHash, true
		r.NextVotedNullBlockHash = true
	}

	if r.StepID > MaxSteps && (r.StepID-MaxSteps-2)%100 == 0 && !r.NextVotesAlreadyBroadcasted {
		result.RebroadcastNext = true
		r.NextVotesAlreadyBroadcasted = true
	}

	return result
}

// FinishPolling resets the per-step next-vote and rebroadcast flags for the
// round's next polling step, mirroring Polling::finish()'s cleanup.
func FinishPolling(r *RoundState) {
	r.NextVotedSoftValue = false
	r.NextVotedNullBlockHash = false
	r.NextVotesAlreadyBroadcasted = false
}
