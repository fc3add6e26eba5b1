package pbft

import (
	"time"

	"github.com/luxfi/log"

	"github.com/taraxa-go/dagbft/crypto"
	"github.com/taraxa-go/dagbft/dag"
	"github.com/taraxa-go/dagbft/proposer"
	"github.com/taraxa-go/dagbft/types"
	"github.com/taraxa-go/dagbft/validator"
	"github.com/taraxa-go/dagbft/vote"
)

// Machine drives one validator's Round/Step state machine (spec.md §4.9):
// step timing, vote placement, round advance on 2t+1 next-votes, and
// immediate commit on 2t+1 cert-votes. Grounded on round.cpp's Round::run
// step-dispatch loop.
type Machine struct {
	log   log.Logger
	graph *dag.Dag
	votes *vote.Manager
	chain ChainReader
	vset  *validator.Set
	key   *crypto.KeyPair
	self  types.Address

	proposalCfg proposer.PbftProposalConfig
	lookup      func(types.Hash) *types.DagBlock
	lastAnchor  AnchorSource
	verifiable  RewardVoteChecker
	rewardVotes []types.Hash

	lambdaMin time.Duration
	round     *RoundState

	// OnCommit is invoked (if non-nil) whenever a cert-voted value reaches
	// 2t+1 and should be finalized immediately, without waiting for the
	// round to end (spec.md §4.9's commit contract).
	OnCommit func(blockHash types.Hash)
	// OnRoundAdvance is invoked when 2t+1 next-votes for any round greater
	// than the current one are observed.
	OnRoundAdvance func(newRound uint64, carriedStep uint64)
}

// NewMachine constructs a Machine starting at round 1.
func NewMachine(logger log.Logger, graph *dag.Dag, votes *vote.Manager, chain ChainReader, vset *validator.Set,
	key *crypto.KeyPair, self types.Address, proposalCfg proposer.PbftProposalConfig,
	lookup func(types.Hash) *types.DagBlock, lastAnchor AnchorSource, verifiable RewardVoteChecker, lambdaMin time.Duration) *Machine {
	return &Machine{
		log: logger, graph: graph, votes: votes, chain: chain, vset: vset, key: key, self: self,
		proposalCfg: proposalCfg, lookup: lookup, lastAnchor: lastAnchor, verifiable: verifiable,
		lambdaMin: lambdaMin, round: NewRound(1, lambdaMin, types.ZeroHash, false),
	}
}

// Current returns the round state currently in flight.
func (m *Machine) Current() *RoundState { return m.round }

// Tick runs the active step's decision logic once and advances to the next
// step when the current one declares itself finished. It does not sleep;
// callers (Run, or tests) control pacing.
func (m *Machine) Tick() {
	r := m.round
	switch r.Step {
	case StepPropose:
		hash, place := Propose(r, m.graph, m.lastAnchor, m.proposalCfg, m.lookup, m.chain, m.rewardVotes, m.verifiable, m.self)
		if place {
			m.placeVote(hash, types.VotePropose, 1)
		}
		r.AdvanceStep(StepFilter, 2)

	case StepFilter:
		proposals := m.votes.ProposalVotes(r.Round)
		hash, place := Filter(r, proposals, m.chain, m.verifiable)
		if place {
			m.placeVote(hash, types.VoteSoft, 2)
		}
		r.AdvanceStep(StepCertify, 3)

	case StepCertify:
		if r.ElapsedMs() < uint64(2*r.Lambda/time.Millisecond) {
			return
		}
		if r.ElapsedMs() > uint64(4*r.Lambda/time.Millisecond) {
			r.AdvanceStep(StepFinish, 4)
			return
		}
		softVoted, _, reached := m.votes.Bundle(m.chainPeriod(), r.Round, 2, m.vset.Threshold())
		hash, place := Certify(r, softVoted, reached, m.chain, m.verifiable)
		if place {
			m.placeVote(hash, types.VoteCert, 3)
			if _, _, ok := m.votes.Bundle(m.chainPeriod(), r.Round, 3, m.vset.Threshold()); ok && m.OnCommit != nil {
				m.OnCommit(hash)
			}
			r.AdvanceStep(StepFinish, 4)
		}

	case StepFinish:
		hash, place := Finish(r, m.chain, m.verifiable)
		if place {
			m.placeVote(hash, types.VoteNext, r.StepID)
		}
		r.AdvanceStep(StepPolling, r.StepID+1)

	case StepPolling:
		result := Polling(r, r.SoftVotedBlock, m.chain, m.verifiable)
		if result.PlaceVote {
			m.placeVote(result.Vote, types.VoteNext, r.StepID)
		}
		finishTime := uint64((r.StepID + 1)) * uint64(r.Lambda/time.Millisecond)
		if r.ElapsedMs() > finishTime {
			FinishPolling(r)
			r.AdvanceStep(StepFinish, r.StepID+1)
		}
	}
}

// placeVote constructs, signs, and registers a vote for this step, mirroring
// Step::placeVote_'s sign-store-gossip sequence (gossip broadcast is the
// caller's responsibility once wired to the gossip package).
func (m *Machine) placeVote(blockHash types.Hash, voteType types.VoteType, step uint64) {
	proof, output := crypto.VrfProve(m.key.Private, m.self[:])
	weight := vote.Weight(output, m.vset.Weight(m.self), m.vset.TotalWeight(), m.vset.Threshold())
	if weight == 0 {
		return
	}
	v := &types.Vote{
		Round: m.round.Round, Period: m.chainPeriod(), Step: step, Type: voteType,
		BlockHash: blockHash, VrfProof: proof, Voter: m.self, Weight: weight,
	}
	v.Signature = m.key.Sign(v.SignedPayload())
	m.votes.AddVerifiedVote(v)
}

func (m *Machine) chainPeriod() uint64 { return m.round.Round }

// MoveToRound advances the machine to a new round once 2t+1 next-votes
// (for a block or for null) are observed in any round greater than the
// current one, carrying the highest step observed forward.
func (m *Machine) MoveToRound(newRound uint64, nextVotedValue types.Hash, nextVotedNull bool, carriedStep uint64) {
	if newRound <= m.round.Round {
		return
	}
	m.round = NewRound(newRound, m.lambdaMin, nextVotedValue, nextVotedNull)
	if carriedStep >= 4 {
		if carriedStep%2 == 0 {
			m.round.AdvanceStep(StepFinish, carriedStep)
		} else {
			m.round.AdvanceStep(StepPolling, carriedStep)
		}
	}
	if m.OnRoundAdvance != nil {
		m.OnRoundAdvance(newRound, carriedStep)
	}
}
