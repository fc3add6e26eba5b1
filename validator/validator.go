// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator implements DPoS eligibility and stake lookups: a
// voter's stake at period p-1 determines both its cert-vote weight and
// whether it is eligible to propose at all (spec.md §4.6, §4.9, glossary
// "DPoS eligibility").
//
// Adapted from the teacher's validator.go (Validator/GetValidatorOutput
// shape, kept for the NodeID/Weight/PublicKey fields) but repurposed from
// an Avalanche L1-validator-set record into a per-period stake snapshot.
package validator

import (
	"crypto/ed25519"
	"sync"

	"github.com/luxfi/ids"

	"github.com/taraxa-go/dagbft/types"
)

// Validator is one participant's identity and stake as of a given period.
// PublicKey is ed25519, the same signing scheme DagBlock/Vote proposers use
// (spec.md §6), so a Set doubles as the signature-verification key source.
type Validator struct {
	NodeID    ids.NodeID
	Address   types.Address
	PublicKey ed25519.PublicKey
	Weight    uint64
}

// Set is an immutable snapshot of the validator stake table at a single
// period, used for both 2t+1 threshold computation and sortition weight.
type Set struct {
	period      uint64
	validators  map[types.Address]*Validator
	totalWeight uint64
	threshold   uint64
}

// NewSet builds a stake snapshot for period, rejecting validators below
// eligibilityThreshold (spec glossary: "DPoS eligibility").
func NewSet(period uint64, validators []*Validator, eligibilityThreshold uint64) *Set {
	s := &Set{period: period, validators: make(map[types.Address]*Validator)}
	for _, v := range validators {
		if v.Weight < eligibilityThreshold {
			continue
		}
		s.validators[v.Address] = v
		s.totalWeight += v.Weight
	}
	s.threshold = TwoTPlusOne(uint64(len(s.validators)))
	return s
}

// TwoTPlusOne computes the Byzantine supermajority threshold
// 2*floor((n-1)/3)+1 over n effective voting-stake participants (glossary
// "2t+1").
func TwoTPlusOne(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return 2*((n-1)/3) + 1
}

// Eligible reports whether addr is DPoS-eligible in this snapshot.
func (s *Set) Eligible(addr types.Address) bool {
	_, ok := s.validators[addr]
	return ok
}

// Get returns the validator record for addr, if eligible in this snapshot.
func (s *Set) Get(addr types.Address) (*Validator, bool) {
	v, ok := s.validators[addr]
	return v, ok
}

// Weight returns addr's stake weight, or 0 if not present.
func (s *Set) Weight(addr types.Address) uint64 {
	if v, ok := s.validators[addr]; ok {
		return v.Weight
	}
	return 0
}

// TotalWeight is the sum of every eligible validator's weight.
func (s *Set) TotalWeight() uint64 { return s.totalWeight }

// Threshold is the 2t+1 supermajority weight for this snapshot's committee
// size.
func (s *Set) Threshold() uint64 { return s.threshold }

// Period is the p-1 period this snapshot's stake was read at.
func (s *Set) Period() uint64 { return s.period }

// Registry resolves a Set for any period the vote manager or proposer
// needs, caching snapshots since stake is immutable once a period
// finalizes.
type Registry struct {
	mu        sync.RWMutex
	snapshots map[uint64]*Set
	source    func(period uint64) []*Validator
	eligThreshold uint64
}

// NewRegistry wraps source (e.g. the executor's DPoS contract read) with a
// per-period cache.
func NewRegistry(eligibilityThreshold uint64, source func(period uint64) []*Validator) *Registry {
	return &Registry{
		snapshots:     make(map[uint64]*Set),
		source:        source,
		eligThreshold: eligibilityThreshold,
	}
}

// At returns the stake snapshot for period, computing and caching it on
// first access.
func (r *Registry) At(period uint64) *Set {
	r.mu.RLock()
	if s, ok := r.snapshots[period]; ok {
		r.mu.RUnlock()
		return s
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.snapshots[period]; ok {
		return s
	}
	s := NewSet(period, r.source(period), r.eligThreshold)
	r.snapshots[period] = s
	return s
}
