// Package pbft implements the per-validator PBFT round/step state machine
// (spec.md §4.9): five step types driven through a round clock, voting on
// and eventually committing PBFT blocks with 2t+1 Byzantine agreement.
package pbft

import (
	"math/rand"
	"time"

	"github.com/taraxa-go/dagbft/types"
)

// StepType mirrors taraxa's pbft::StepType enum.
type StepType int

const (
	StepPropose StepType = iota + 1
	StepFilter
	StepCertify
	StepFinish
	StepPolling
)

func (s StepType) String() string {
	switch s {
	case StepPropose:
		return "propose"
	case StepFilter:
		return "filter"
	case StepCertify:
		return "certify"
	case StepFinish:
		return "finish"
	case StepPolling:
		return "polling"
	default:
		return "unknown"
	}
}

// MaxSteps is the odd step count (step.hpp's MAX_STEPS) after which lambda
// starts exponentially backing off.
const MaxSteps = 13

// MaxLambda caps the exponential lambda backoff (round_face.hpp's kMaxLambda).
const MaxLambda = 60 * time.Second

// RoundState carries everything RoundFace/CommonState held across a round:
// the accumulated voting decisions, timers used by the give-up heuristics,
// and the lambda backoff schedule.
type RoundState struct {
	Round  uint64
	StepID uint64
	Step   StepType

	Lambda        time.Duration
	LambdaBackoff uint64
	StartTime     time.Time

	PreviousRoundNextVotedValue     types.Hash
	PreviousRoundNextVotedNull      bool
	OwnStartingValueForRound        types.Hash
	LastSoftVotedValue              types.Hash
	LastCertVotedValue              types.Hash
	SoftVotedBlock                  types.Hash
	TimeBeganWaitingSoftVotedBlock  time.Time
	TimeBeganWaitingNextVotedBlock  time.Time
	NextVotedSoftValue              bool
	NextVotedNullBlockHash          bool
	NextVotesAlreadyBroadcasted     bool
	ExecutedPbftBlock               bool
	BlockCertified                  bool
	ProposedBlockHash               types.Hash
}

// NewRound starts round-state bookkeeping for the given round, carrying
// forward whatever the previous round's next-vote bundle decided.
func NewRound(id uint64, lambdaMin time.Duration, prevNextVotedValue types.Hash, prevNextVotedNull bool) *RoundState {
	return &RoundState{
		Round:                       id,
		StepID:                      1,
		Step:                       StepPropose,
		Lambda:                      lambdaMin,
		LambdaBackoff:               1,
		StartTime:                   time.Now(),
		PreviousRoundNextVotedValue: prevNextVotedValue,
		PreviousRoundNextVotedNull:  prevNextVotedNull,
	}
}

// ElapsedMs is the time since round start, in milliseconds — the quantity
// every step's timing contract (spec.md §4.9) is expressed in terms of.
func (r *RoundState) ElapsedMs() uint64 {
	return uint64(time.Since(r.StartTime) / time.Millisecond)
}

// AdvanceStep applies round.cpp's updateStepData: persist the new step id
// and, past MaxSteps, exponentially back lambda off with jitter.
func (r *RoundState) AdvanceStep(next StepType, nextID uint64) {
	r.Step = next
	r.StepID = nextID
	if nextID > MaxSteps && r.LambdaBackoff < 8 {
		r.LambdaBackoff *= 2
		jitter := time.Duration(0)
		if span := nextID - MaxSteps; span > 0 {
			jitter = time.Duration(rand.Int63n(int64(span))) * r.Lambda
		}
		backed := r.Lambda * time.Duration(r.LambdaBackoff)
		r.Lambda = backed + jitter
		if r.Lambda > MaxLambda {
			r.Lambda = MaxLambda
		}
	}
}
