package gossip

import (
	"sync"

	"github.com/luxfi/ids"

	"github.com/taraxa-go/dagbft/types"
)

// PeerState is the per-peer bookkeeping spec.md §4.12 requires: what the
// peer is already known to have, and its last-announced DAG/PBFT
// watermark.
type PeerState struct {
	mu sync.Mutex

	knownVotes  map[types.Hash]bool
	knownBlocks map[types.Hash]bool

	period uint64
	round  uint64

	syncing bool
}

// NewPeerState constructs empty bookkeeping for a newly connected peer.
func NewPeerState() *PeerState {
	return &PeerState{knownVotes: make(map[types.Hash]bool), knownBlocks: make(map[types.Hash]bool)}
}

// MarkVoteKnown records that this peer has (or will, via an outbound send)
// seen a vote.
func (p *PeerState) MarkVoteKnown(h types.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.knownVotes[h] = true
}

// KnowsVote reports whether this peer is already known to have a vote.
func (p *PeerState) KnowsVote(h types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.knownVotes[h]
}

// MarkBlockKnown records that this peer has (or will) seen a DAG block.
func (p *PeerState) MarkBlockKnown(h types.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.knownBlocks[h] = true
}

// KnowsBlock reports whether this peer is already known to have a block.
func (p *PeerState) KnowsBlock(h types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.knownBlocks[h]
}

// SetStatus updates the peer's last-announced round/period watermark.
func (p *PeerState) SetStatus(period, round uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.period = period
	p.round = round
}

// Round returns the peer's last-announced PBFT round.
func (p *PeerState) Round() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.round
}

// SetSyncing marks whether a DagSync/PbftSync exchange is in flight with
// this peer, so a second one isn't started concurrently.
func (p *PeerState) SetSyncing(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncing = v
}

// Syncing reports whether a sync exchange with this peer is in flight.
func (p *PeerState) Syncing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.syncing
}

// Peers tracks bookkeeping for every connected peer.
type Peers struct {
	mu    sync.RWMutex
	peers map[ids.NodeID]*PeerState
}

// NewPeers constructs an empty peer table.
func NewPeers() *Peers {
	return &Peers{peers: make(map[ids.NodeID]*PeerState)}
}

// Connected registers a newly connected peer.
func (p *Peers) Connected(id ids.NodeID) *PeerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := NewPeerState()
	p.peers[id] = st
	return st
}

// Disconnected removes a peer's bookkeeping.
func (p *Peers) Disconnected(id ids.NodeID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.peers, id)
}

// Get returns a peer's state, or nil if not connected.
func (p *Peers) Get(id ids.NodeID) *PeerState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.peers[id]
}

// All returns every connected peer's id and state.
func (p *Peers) All() map[ids.NodeID]*PeerState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[ids.NodeID]*PeerState, len(p.peers))
	for id, st := range p.peers {
		out[id] = st
	}
	return out
}
