package pbftchain

import (
	"sync"

	"github.com/taraxa-go/dagbft/types"
)

// entry is one staged period synced from a peer.
type entry struct {
	data   types.PeriodData
	peerID string
}

// PeriodDataQueue stages PeriodData blocks synced from peers ahead of the
// finalized chain tip, pairing each with the cert-votes that finalize the
// *previous* entry in the queue (or, for the last entry, cert-votes held
// separately until the block after it arrives). Grounded verbatim on
// period_data_queue.cpp's push/pop/size contract — scenario S6.
type PeriodDataQueue struct {
	mu sync.RWMutex

	queue  []entry
	period uint64

	lastBlockCertVotes []*types.Vote
}

// NewQueue constructs an empty sync queue.
func NewQueue() *PeriodDataQueue {
	return &PeriodDataQueue{}
}

// Period is the period number of the last block pushed, or 0 if nothing
// has been pushed since construction or the last Clear; Pop does not
// change it.
func (q *PeriodDataQueue) Period() uint64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.period
}

// Size is the queue length, adjusted per period_data_queue.cpp: an entry
// only "counts" once its finalizing cert-votes are available, which for the
// newest entry means last_block_cert_votes_ must be populated.
func (q *PeriodDataQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if len(q.lastBlockCertVotes) > 0 || len(q.queue) == 0 {
		return len(q.queue)
	}
	return len(q.queue) - 1
}

// Clear empties the queue and resets its period watermark to 0.
func (q *PeriodDataQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.period = 0
	q.queue = nil
	q.lastBlockCertVotes = nil
}

// Push stages a synced block. It is accepted only if its period is exactly
// one past max(currentQueuePeriod, maxChainSize) — i.e. either the next
// block after whatever the queue already holds, or (if the chain caught up
// past the queue) the next block after the chain tip, which flushes the
// stale queue first.
func (q *PeriodDataQueue) Push(data types.PeriodData, peerID string, maxChainSize uint64, certVotes []*types.Vote) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	period := data.Block.Period
	expected := q.period
	if maxChainSize > expected {
		expected = maxChainSize
	}
	if period != expected+1 {
		return false
	}
	if maxChainSize > q.period && len(q.queue) > 0 {
		q.queue = nil
	}
	q.period = period
	q.queue = append(q.queue, entry{data: data, peerID: peerID})
	q.lastBlockCertVotes = certVotes
	return true
}

// Pop removes and returns the oldest staged block, the cert-votes that
// finalize it (drawn from the next queue entry's retained
// previous-block-cert-votes, or from the held last-block cert-votes if this
// was the only entry), and the peer ID it arrived from.
func (q *PeriodDataQueue) Pop() (types.PeriodData, []*types.Vote, string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return types.PeriodData{}, nil, "", false
	}
	front := q.queue[0]
	q.queue = q.queue[1:]
	if len(q.queue) > 0 {
		return front.data, q.queue[0].data.CertVotes, front.peerID, true
	}
	return front.data, q.lastBlockCertVotes, front.peerID, true
}

// LastBlock returns the most recently pushed block, or nil if empty.
func (q *PeriodDataQueue) LastBlock() *types.PbftBlock {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if len(q.queue) == 0 {
		return nil
	}
	return q.queue[len(q.queue)-1].data.Block
}
