// Package gossip implements the peer-facing message shapes and per-peer
// bookkeeping for the hooks spec.md §4.12 names: no transport is owned
// here (that's left to whatever p2p layer embeds this package), only the
// typed messages, the broadcast-eligibility rules, and the malformed-
// payload disconnect policy.
//
// Grounded on the teacher's now-deleted networking/handler's typed
// Op/Message shape (Message{NodeID, RequestID, Op, Message []byte}, Op as
// a byte enum) — kept as the idiom, generalized from the Avalanche
// snowman Op set (GetAccepted/PushQuery/Chits/...) to this spec's DAG/PBFT
// message kinds.
package gossip

import (
	"github.com/luxfi/ids"

	"github.com/taraxa-go/dagbft/types"
)

// Op identifies a gossip message kind.
type Op byte

const (
	OpDagBlock Op = iota
	OpDagSync
	OpTransaction
	OpVote
	OpVotesSync
	OpPbftBlock
	OpPbftSync
	OpStatus
	OpGetDagSync
	OpGetPbftSync
)

func (o Op) String() string {
	switch o {
	case OpDagBlock:
		return "DagBlock"
	case OpDagSync:
		return "DagSync"
	case OpTransaction:
		return "Transaction"
	case OpVote:
		return "Vote"
	case OpVotesSync:
		return "VotesSync"
	case OpPbftBlock:
		return "PbftBlock"
	case OpPbftSync:
		return "PbftSync"
	case OpStatus:
		return "Status"
	case OpGetDagSync:
		return "GetDagSync"
	case OpGetPbftSync:
		return "GetPbftSync"
	default:
		return "Unknown"
	}
}

// Status is the periodic handshake/heartbeat payload peers exchange: the
// sender's current DAG level, PBFT period and round, used to decide what
// to request next.
type Status struct {
	DagLevel   uint64
	PbftPeriod uint64
	PbftRound  uint64
}

// Message is one inbound or outbound gossip payload.
type Message struct {
	Peer      ids.NodeID
	RequestID uint32
	Op        Op

	DagBlock    *types.DagBlock
	DagSync     []*types.DagBlock
	Transaction *types.Transaction
	Vote        *types.Vote
	VotesSync   []*types.Vote
	PbftBlock   *types.PbftBlock
	PbftSync    []types.PeriodData
	Status      *Status

	// GetDagSync/GetPbftSync requests carry the requester's known
	// watermark so the responder knows where to start.
	FromLevel  uint64
	FromPeriod uint64
}
