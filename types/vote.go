package types

// VoteType enumerates the four typed PBFT votes.
type VoteType uint8

const (
	VotePropose VoteType = iota + 1
	VoteSoft
	VoteCert
	VoteNext
)

func (t VoteType) String() string {
	switch t {
	case VotePropose:
		return "propose"
	case VoteSoft:
		return "soft"
	case VoteCert:
		return "cert"
	case VoteNext:
		return "next"
	default:
		return "unknown"
	}
}

// Vote is a single validator's typed ballot. Weight is computed by the vote
// manager from the voter's stake and VRF output; it is not part of the
// signed payload.
type Vote struct {
	Round     uint64
	Period    uint64
	Step      uint64
	Type      VoteType
	BlockHash Hash
	VrfProof  []byte
	Voter     Address
	Signature []byte

	Weight uint64 `json:"-"`
}

// SignedPayload is the message that was actually signed: it excludes the
// VRF proof bytes (spec §6 — "Votes' signed message excludes the VRF proof
// bytes"); the voter address is recovered from the signature rather than
// carried explicitly in production wire form, but is kept here for
// in-memory bookkeeping convenience.
func (v *Vote) SignedPayload() []byte {
	e := newEncoder()
	e.uint64(v.Round)
	e.uint64(v.Period)
	e.uint64(v.Step)
	e.uint64(uint64(v.Type))
	e.bytes(v.BlockHash[:])
	return e.bytes_
}

// Hash identifies the vote for dedup/indexing purposes.
func (v *Vote) Hash() Hash {
	e := newEncoder()
	e.bytes(v.SignedPayload())
	e.bytes(v.VrfProof)
	e.bytes(v.Voter[:])
	e.bytes(v.Signature)
	return hashRLP(e.bytes_)
}

// Key identifies the (period, round, step, block hash) witness-set bucket a
// vote belongs to.
type VoteKey struct {
	Period    uint64
	Round     uint64
	Step      uint64
	BlockHash Hash
}

func (v *Vote) Key() VoteKey {
	return VoteKey{Period: v.Period, Round: v.Round, Step: v.Step, BlockHash: v.BlockHash}
}
