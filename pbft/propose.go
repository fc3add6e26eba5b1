package pbft

import (
	"github.com/taraxa-go/dagbft/dag"
	"github.com/taraxa-go/dagbft/proposer"
	"github.com/taraxa-go/dagbft/types"
)

// AnchorSource resolves the most recent finalized DAG anchor, used as the
// ghost-path root when proposing a new PBFT block.
type AnchorSource func() types.Hash

// Propose implements step 1 (spec.md §4.9 Propose): round 1 never
// proposes; for round ≥ 2, if the node is
// giving up on the previous round's next-voted value it builds and
// propose-votes a fresh PBFT block via proposer.ProposePbftBlock, otherwise
// it re-proposes the previous round's next-voted block. Returns the block
// hash to propose-vote and true, or the zero hash and false if nothing
// should be proposed this round.
func Propose(r *RoundState, graph *dag.Dag, lastAnchor AnchorSource, cfg proposer.PbftProposalConfig,
	lookup func(types.Hash) *types.DagBlock, chain ChainReader, rewardVotes []types.Hash, verifiable RewardVoteChecker,
	self types.Address) (vote types.Hash, place bool) {

	if r.Round == 1 {
		return types.ZeroHash, false
	}

	if giveUpNextVotedBlock(r, chain, verifiable) {
		if r.ProposedBlockHash == types.ZeroHash {
			r.ProposedBlockHash = proposeBlock(graph, lastAnchor(), cfg, lookup, chain, rewardVotes, self)
		}
		if r.ProposedBlockHash != types.ZeroHash {
			r.OwnStartingValueForRound = r.ProposedBlockHash
			return r.OwnStartingValueForRound, true
		}
		return types.ZeroHash, false
	}

	if r.PreviousRoundNextVotedValue != types.ZeroHash {
		r.OwnStartingValueForRound = r.PreviousRoundNextVotedValue
		if chain.GetUnverified(r.OwnStartingValueForRound) != nil {
			return r.OwnStartingValueForRound, true
		}
	}
	return types.ZeroHash, false
}

// proposeBlock runs the ghost-path anchor selection and gas-cap clipping
// (proposer.ProposePbftBlock) and assembles a PbftBlock header, returning
// its hash. Assembly/signing/push into the unverified queue is the caller's
// (node wiring's) responsibility in a full deployment; here it mirrors
// propose.cpp's generatePbftBlock by computing the would-be block hash.
func proposeBlock(graph *dag.Dag, lastAnchor types.Hash, cfg proposer.PbftProposalConfig,
	lookup func(types.Hash) *types.DagBlock, chain ChainReader, rewardVotes []types.Hash, self types.Address) types.Hash {
	anchor, dagOrder, txOrder, err := proposer.ProposePbftBlock(graph, lastAnchor, cfg, lookup)
	if err != nil || anchor == types.ZeroHash {
		return types.ZeroHash
	}
	orderHash := types.OrderHashOf(dagOrder, txOrder)
	block := &types.PbftBlock{
		PreviousBlockHash: chain.LastBlockHash(),
		AnchorHash:        anchor,
		OrderHash:         orderHash,
		Proposer:          self,
		RewardVoteHashes:  rewardVotes,
	}
	return block.Hash()
}
