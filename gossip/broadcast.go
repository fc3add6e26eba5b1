package gossip

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/taraxa-go/dagbft/types"
)

// ErrMalformedPayload is returned by Validate when an inbound message
// violates its kind's basic shape; the caller is expected to disconnect
// the sending peer (spec.md §4.12: "peers sending malformed payloads ...
// are disconnected").
var ErrMalformedPayload = errors.New("gossip: malformed payload")

// Validate checks an inbound message's basic shape, independent of
// consensus-level validity (signatures, stake, etc., which belong to the
// vote/dag/pbft layers). Catches the two cases spec.md calls out by name:
// a zero-size vote bundle, and a VotesSync bundle whose votes don't all
// share the first vote's round. PbftSync bundles are not checked.
func Validate(msg Message) error {
	switch msg.Op {
	case OpVotesSync:
		if len(msg.VotesSync) == 0 {
			return ErrMalformedPayload
		}
		round := msg.VotesSync[0].Round
		for _, v := range msg.VotesSync {
			if v.Round != round {
				return ErrMalformedPayload
			}
		}
	case OpVote:
		if msg.Vote == nil {
			return ErrMalformedPayload
		}
	case OpDagBlock:
		if msg.DagBlock == nil {
			return ErrMalformedPayload
		}
	case OpPbftBlock:
		if msg.PbftBlock == nil {
			return ErrMalformedPayload
		}
	case OpStatus:
		if msg.Status == nil {
			return ErrMalformedPayload
		}
	}
	return nil
}

// ShouldSendVote implements the spec's vote broadcast rule: send only if
// the peer does not already know the vote's hash.
func ShouldSendVote(peer *PeerState, v *types.Vote) bool {
	return !peer.KnowsVote(v.Hash())
}

// ShouldSendVotesBundle implements the spec's next-vote bundle broadcast
// rule: send only to peers at round <= ours that hold fewer bundles than
// we're offering (approximated here by the bundle size, since a peer's
// retained bundle count isn't separately tracked).
func ShouldSendVotesBundle(peer *PeerState, ourRound uint64, bundle []*types.Vote, peerKnownBundleSize int) bool {
	if peer.Round() > ourRound {
		return false
	}
	return peerKnownBundleSize < len(bundle)
}

// Broadcaster gossips a vote to every peer for which ShouldSendVote holds,
// marking it known on each as it sends.
type Broadcaster struct {
	peers *Peers
	send  func(ids.NodeID, Message) error
}

// NewBroadcaster constructs a Broadcaster that delivers via send.
func NewBroadcaster(peers *Peers, send func(ids.NodeID, Message) error) *Broadcaster {
	return &Broadcaster{peers: peers, send: send}
}

// BroadcastVote gossips v to every peer that doesn't already know it.
func (b *Broadcaster) BroadcastVote(v *types.Vote) error {
	for id, peer := range b.peers.All() {
		if !ShouldSendVote(peer, v) {
			continue
		}
		if err := b.send(id, Message{Op: OpVote, Vote: v}); err != nil {
			return err
		}
		peer.MarkVoteKnown(v.Hash())
	}
	return nil
}

// BroadcastVotesBundle gossips a next-vote bundle to every peer eligible
// under ShouldSendVotesBundle.
func (b *Broadcaster) BroadcastVotesBundle(ourRound uint64, bundle []*types.Vote) error {
	for id, peer := range b.peers.All() {
		if !ShouldSendVotesBundle(peer, ourRound, bundle, 0) {
			continue
		}
		if err := b.send(id, Message{Op: OpVotesSync, VotesSync: bundle}); err != nil {
			return err
		}
		for _, v := range bundle {
			peer.MarkVoteKnown(v.Hash())
		}
	}
	return nil
}
