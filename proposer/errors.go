package proposer

import "errors"

var (
	errAlreadyProposedAtLevel = errors.New("proposer: already proposed a block at this level")
	errNotEligible            = errors.New("proposer: not dpos-eligible for this period")
	errEmptyGhostPath         = errors.New("proposer: ghost path unexpectedly empty")
)
