package pbft

import (
	"time"

	"github.com/taraxa-go/dagbft/types"
)

// ChainReader is the subset of pbftchain.Chain the step functions need: a
// non-finalized-block view plus the immutable tail of the finalized chain.
type ChainReader interface {
	FindInChain(hash types.Hash) bool
	GetUnverified(hash types.Hash) *types.PbftBlock
	CheckValidation(block *types.PbftBlock) bool
	LastBlockHash() types.Hash
}

// RewardVoteChecker verifies a candidate block's reward votes and DAG order
// hash — the "compareBlocksAndRewardVotes" check from pbft_manager.cpp.
type RewardVoteChecker func(candidate types.Hash) bool

// giveUpSoftVotedBlock fires when the node has waited longer than 2*lambda
// since it first saw the current soft-voted value and still cannot verify
// it (spec.md §4.9's give-up-soft-voted condition).
func giveUpSoftVotedBlock(r *RoundState, chain ChainReader, verifiable RewardVoteChecker) bool {
	if r.SoftVotedBlock == types.ZeroHash {
		return false
	}
	if r.TimeBeganWaitingSoftVotedBlock.IsZero() {
		return false
	}
	if time.Since(r.TimeBeganWaitingSoftVotedBlock) <= 2*r.Lambda {
		return false
	}
	if chain.FindInChain(r.SoftVotedBlock) {
		return false
	}
	return !verifiable(r.SoftVotedBlock)
}

// giveUpNextVotedBlock fires when the previous round's next-voted value is
// either null, already finalized, or still fails to verify after the
// waiting grace period (spec.md §4.9's give-up-next-voted condition).
func giveUpNextVotedBlock(r *RoundState, chain ChainReader, verifiable RewardVoteChecker) bool {
	if r.PreviousRoundNextVotedNull {
		return true
	}
	if r.PreviousRoundNextVotedValue == types.ZeroHash {
		return false
	}
	if chain.FindInChain(r.PreviousRoundNextVotedValue) {
		return true
	}
	if r.TimeBeganWaitingNextVotedBlock.IsZero() {
		return false
	}
	if time.Since(r.TimeBeganWaitingNextVotedBlock) <= 2*r.Lambda {
		return false
	}
	return !verifiable(r.PreviousRoundNextVotedValue)
}

// updateLastSoftVotedValue resets the soft-vote wait timer whenever the
// soft-voted value observed for this round actually changes.
func updateLastSoftVotedValue(r *RoundState, newValue types.Hash) {
	if newValue != r.LastSoftVotedValue {
		r.TimeBeganWaitingSoftVotedBlock = time.Now()
	}
	r.LastSoftVotedValue = newValue
}
