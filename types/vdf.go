package types

// VdfProof is a repeated-squaring verifiable-delay proof gating DAG block
// proposals at a level. Generation is Θ(t) in the configured difficulty;
// vdf.Verify recomputes the solution, so verification is Θ(t) as well.
type VdfProof struct {
	DifficultyBound uint64
	Solution        []byte
	Level           uint64
	ParentPivot     Hash
	PeriodSeed      Hash
}

func (p *VdfProof) encode() []byte {
	e := newEncoder()
	e.uint64(p.DifficultyBound)
	e.bytes(p.Solution)
	e.uint64(p.Level)
	e.bytes(p.ParentPivot[:])
	e.bytes(p.PeriodSeed[:])
	return e.bytes_
}
