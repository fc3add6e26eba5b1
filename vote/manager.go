// Package vote implements the vote manager and VRF sortition (spec.md
// §4.8): vote weight, 2t+1 witness-set aggregation, double-vote detection,
// and reward-vote retention across periods.
//
// Grounded on
// original_source/libraries/core_libs/consensus/src/vote_manager/vote_manager.cpp
// (addVerifiedVote's 2t+1-witness-set bookkeeping keyed by
// (period,round,step,type), getProposalVotes's period/round indexing) and
// .../step/filter.cpp (identifyLeaderBlock_'s min-hash leader election,
// scenario S4).
package vote

import (
	"bytes"
	"sync"

	"github.com/taraxa-go/dagbft/crypto"
	"github.com/taraxa-go/dagbft/types"
	"github.com/taraxa-go/dagbft/validator"
)

// SortitionThreshold returns the threshold committee/proposer size used for
// weight calculation: proposal votes use numberOfProposers, every other
// vote type uses committeeSize (spec §4.8).
func SortitionThreshold(voteType types.VoteType, numberOfProposers, committeeSize uint64) uint64 {
	if voteType == types.VotePropose {
		return numberOfProposers
	}
	return committeeSize
}

// Weight computes a vote's weight from the voter's stake, the total stake,
// and the VRF output, by checking how many of the voter's
// sortition "lottery tickets" (i in [1, voterStake]) hash below the
// probability implied by threshold/totalStake. A weight of zero means the
// vote is discarded.
func Weight(vrfOutput types.Hash, voterStake, totalStake, threshold uint64) uint64 {
	if totalStake == 0 || voterStake == 0 {
		return 0
	}
	var w uint64
	for i := uint64(1); i <= voterStake; i++ {
		h := crypto.Keccak256(vrfOutput[:], encodeUint64(i))
		if belowThreshold(h, totalStake, threshold) {
			w++
		}
	}
	return w
}

func belowThreshold(h types.Hash, totalStake, threshold uint64) bool {
	// Interpret the first 8 bytes of h as a uniform sample in [0,
	// totalStake) and accept if it falls within the threshold-sized
	// window, the same Bernoulli-trial-per-ticket construction the
	// original's VrfPbftSortition::calculateWeight performs.
	v := beUint64(h[:8]) % totalStake
	return v < threshold
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// DoubleVoteReport records a slashable double vote: two votes by the same
// voter at the same (period, round, step) disagreeing on block hash.
type DoubleVoteReport struct {
	Voter  types.Address
	First  *types.Vote
	Second *types.Vote
}

type stepKey struct {
	Period uint64
	Round  uint64
	Step   uint64
}

type witnessKey struct {
	stepKey
	BlockHash types.Hash
}

// Manager indexes verified votes by (period, round, step, block_hash),
// aggregates 2t+1 witness sets, detects double votes, and retains reward
// votes (the cert-votes that finalized the previous PBFT block) until the
// current block commits.
type Manager struct {
	mu sync.Mutex

	votesByKey map[witnessKey][]*types.Vote
	witness    map[witnessKey]bool // first witness set persisted, per (period,round,step,block_hash)
	byVoter    map[stepKey]map[types.Address]*types.Vote

	doubleVotes []DoubleVoteReport

	rewardVotes       []*types.Vote
	rewardVotesPeriod uint64
	rewardSlack       uint64 // rounds of slack for late-arriving cert-votes
}

// New constructs an empty Manager. rewardSlack is the number of rounds of
// slack for late-arriving reward cert-votes (spec: "up to 100 rounds of
// slack").
func New(rewardSlack uint64) *Manager {
	if rewardSlack == 0 {
		rewardSlack = 100
	}
	return &Manager{
		votesByKey: make(map[witnessKey][]*types.Vote),
		witness:    make(map[witnessKey]bool),
		byVoter:    make(map[stepKey]map[types.Address]*types.Vote),
		rewardSlack: rewardSlack,
	}
}

// AddVerifiedVote adds a vote whose signature, VRF proof and weight have
// already been checked by the caller. It returns false (and records a
// DoubleVoteReport) if voter already voted differently at this
// (period,round,step) — except the specific exception where step is odd
// and one of the two votes is for the null block, in which case both are
// retained (spec §4.8).
func (m *Manager) AddVerifiedVote(v *types.Vote) bool {
	if v.Weight == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	sk := stepKey{Period: v.Period, Round: v.Round, Step: v.Step}
	if m.byVoter[sk] == nil {
		m.byVoter[sk] = make(map[types.Address]*types.Vote)
	}
	if prior, ok := m.byVoter[sk][v.Voter]; ok && prior.BlockHash != v.BlockHash {
		oddStepNullException := v.Step%2 == 1 && (prior.BlockHash == types.ZeroHash || v.BlockHash == types.ZeroHash)
		if !oddStepNullException {
			m.doubleVotes = append(m.doubleVotes, DoubleVoteReport{Voter: v.Voter, First: prior, Second: v})
			return false
		}
	}
	m.byVoter[sk][v.Voter] = v

	wk := witnessKey{stepKey: sk, BlockHash: v.BlockHash}
	m.votesByKey[wk] = append(m.votesByKey[wk], v)
	return true
}

// WitnessSet returns the votes accumulated for (period,round,step,block)
// and whether they reach the supplied 2t+1 threshold. The first witness
// set reaching threshold for a step is what callers should persist;
// Manager itself does not enforce idempotent persistence — callers check
// MarkPersisted's result first.
func (m *Manager) WitnessSet(period, round, step uint64, blockHash types.Hash, threshold uint64) ([]*types.Vote, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wk := witnessKey{stepKey{period, round, step}, blockHash}
	votes := m.votesByKey[wk]
	var total uint64
	for _, v := range votes {
		total += v.Weight
	}
	return votes, total >= threshold
}

// Bundle finds whichever block hash has accumulated ≥ threshold weight at
// (period,round,step), returning it along with its votes — the Certify and
// Polling steps' "does any value have 2t+1 votes yet" query
// (getVotesBundleByRoundAndStep in vote_manager.cpp), which does not
// pre-know which block hash to look for.
func (m *Manager) Bundle(period, round, step, threshold uint64) (types.Hash, []*types.Vote, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for wk, votes := range m.votesByKey {
		if wk.Period != period || wk.Round != round || wk.Step != step {
			continue
		}
		var total uint64
		for _, v := range votes {
			total += v.Weight
		}
		if total >= threshold {
			return wk.BlockHash, votes, true
		}
	}
	return types.Hash{}, nil, false
}

// MarkPersisted records that the witness set for this key has been
// persisted, so a later call to WitnessSet for the same key is known to be
// a re-derivation rather than a fresh 2t+1 event (spec: "the first such
// witness set for a step is persisted").
func (m *Manager) MarkPersisted(period, round, step uint64, blockHash types.Hash) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	wk := witnessKey{stepKey{period, round, step}, blockHash}
	if m.witness[wk] {
		return false
	}
	m.witness[wk] = true
	return true
}

// ProposalVotes returns every step-1 propose vote recorded for round, across
// all voters — the candidate set the Filter step scores (spec §4.9).
func (m *Manager) ProposalVotes(round uint64) []*types.Vote {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Vote
	for wk, votes := range m.votesByKey {
		if wk.Round != round || wk.Step != 1 {
			continue
		}
		out = append(out, votes...)
	}
	return out
}

// DoubleVotes returns every recorded double-vote report.
func (m *Manager) DoubleVotes() []DoubleVoteReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DoubleVoteReport(nil), m.doubleVotes...)
}

// SetRewardVotes retains votes as the reward votes for the just-finalized
// period. They are kept until the next SetRewardVotes call replaces them.
func (m *Manager) SetRewardVotes(period uint64, votes []*types.Vote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rewardVotesPeriod = period
	m.rewardVotes = votes
}

// RewardVotes returns the retained reward votes and the period they
// finalized.
func (m *Manager) RewardVotes() (uint64, []*types.Vote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rewardVotesPeriod, append([]*types.Vote(nil), m.rewardVotes...)
}

// AcceptLateRewardVote accepts a late-arriving cert-vote for
// (blockHash,period) if it is within rewardSlack rounds of currentRound,
// appending it to the retained reward-vote set.
func (m *Manager) AcceptLateRewardVote(currentRound, voteRound uint64, v *types.Vote) bool {
	if voteRound+m.rewardSlack < currentRound {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.Period != m.rewardVotesPeriod {
		return false
	}
	m.rewardVotes = append(m.rewardVotes, v)
	return true
}

// IdentifyLeaderBlock deterministically picks, among this round's proposal
// votes, the one minimizing H(vrf_output || voter || i) over i in
// [1,weight] — matching filter.cpp's identifyLeaderBlock_ and scenario S4.
// It returns the winning vote's block hash and true, or the zero hash and
// false if votes is empty.
func IdentifyLeaderBlock(votes []*types.Vote) (types.Hash, bool) {
	if len(votes) == 0 {
		return types.Hash{}, false
	}
	var (
		best     types.Hash
		bestSet  bool
		leaderOf types.Hash
	)
	for _, v := range votes {
		for i := uint64(1); i <= v.Weight; i++ {
			h := crypto.Keccak256(v.VrfProof, v.Voter[:], encodeUint64(i))
			if !bestSet || bytes.Compare(h[:], best[:]) < 0 {
				best = h
				bestSet = true
				leaderOf = v.BlockHash
			}
		}
	}
	return leaderOf, bestSet
}

// EligibleProposerWeight is a convenience wrapper combining a validator
// stake snapshot with Weight, used by the proposer and by vote
// verification alike.
func EligibleProposerWeight(vset *validator.Set, voter types.Address, vrfOutput types.Hash, threshold uint64) uint64 {
	stake := vset.Weight(voter)
	return Weight(vrfOutput, stake, vset.TotalWeight(), threshold)
}
