package pbftchain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taraxa-go/dagbft/types"
)

func blockAt(period uint64, embeddedCertVotes []*types.Vote) types.PeriodData {
	return types.PeriodData{Block: &types.PbftBlock{Period: period}, CertVotes: embeddedCertVotes}
}

// TestScenarioS6 implements spec.md §8 scenario S6: with the queue empty and
// chain size 10, push(12) is rejected (expected 11), push(11) is accepted,
// and the next accepted push fills the period-12 slot the scenario's final
// pop() draws cert-votes from. (The scenario prose's "push(period=13)" is
// read as the period-12 push implied by its own "cert-votes copied from
// queue's period-12 entry" follow-up — see DESIGN.md.)
func TestScenarioS6(t *testing.T) {
	q := NewQueue()

	require.False(t, q.Push(blockAt(12, nil), "peerA", 10, nil))

	require.True(t, q.Push(blockAt(11, nil), "peerA", 10, nil))

	// Period 12's own PeriodData carries, as part of its synced payload, the
	// cert-votes that finalize period 11 — the embedded proof pop() draws on
	// whenever a later entry exists in the queue.
	certVotesFinalizing11 := []*types.Vote{{Round: 2}}
	require.True(t, q.Push(blockAt(12, certVotesFinalizing11), "peerA", 10, nil))

	data, certVotes, peer, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint64(11), data.Block.Period)
	require.Equal(t, "peerA", peer)
	require.Equal(t, certVotesFinalizing11, certVotes)
}

func TestPushRejectsWrongPeriod(t *testing.T) {
	q := NewQueue()
	require.False(t, q.Push(blockAt(1, nil), "p", 10, nil))
}

func TestPopEmptyQueueReturnsFalse(t *testing.T) {
	q := NewQueue()
	_, _, _, ok := q.Pop()
	require.False(t, ok)
}

func TestPopLastEntryUsesPushCertVotes(t *testing.T) {
	q := NewQueue()
	votes := []*types.Vote{{Round: 9}}
	require.True(t, q.Push(blockAt(1, nil), "p", 0, votes))

	data, certVotes, _, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint64(1), data.Block.Period)
	require.Equal(t, votes, certVotes)
}

func TestPushFlushesStaleQueueWhenChainCaughtUp(t *testing.T) {
	q := NewQueue()
	require.True(t, q.Push(blockAt(1, nil), "p", 0, nil))
	require.Equal(t, 1, len(q.queue))

	// Chain has now finalized up to period 5 independently (e.g. synced via
	// another path): the next push must restart from period 6, discarding
	// the stale period-1 entry.
	require.True(t, q.Push(blockAt(6, nil), "p", 5, nil))
	require.Equal(t, 1, len(q.queue))
	require.Equal(t, uint64(6), q.queue[0].data.Block.Period)
}
