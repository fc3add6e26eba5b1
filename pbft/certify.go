package pbft

import "github.com/taraxa-go/dagbft/types"

// Certify implements step 3 (spec.md §4.9 Certify): if soft-votes for a
// block reach 2t+1 and the block verifies (DAG blocks present, order hash
// matches, reward votes valid), cert-vote it. Cert-voting locks the node
// onto that value for the remainder of the round.
func Certify(r *RoundState, softVotedBlock types.Hash, softVotesReach2tPlus1 bool, chain ChainReader, verifiable RewardVoteChecker) (vote types.Hash, place bool) {
	if r.LastCertVotedValue != types.ZeroHash {
		// Already locked onto a value this round; certify is a one-shot
		// commitment (round.cpp never re-enters Certify once cert-voted).
		return types.ZeroHash, false
	}
	if !softVotesReach2tPlus1 || softVotedBlock == types.ZeroHash {
		return types.ZeroHash, false
	}
	r.SoftVotedBlock = softVotedBlock

	executed := r.BlockCertified && chain.LastBlockHash() == softVotedBlock
	validUnverified := !executed && chain.GetUnverified(softVotedBlock) != nil && chain.CheckValidation(chain.GetUnverified(softVotedBlock))

	if !executed && !validUnverified {
		return types.ZeroHash, false
	}
	if !verifiable(softVotedBlock) {
		return types.ZeroHash, false
	}

	r.LastCertVotedValue = softVotedBlock
	return softVotedBlock, true
}
