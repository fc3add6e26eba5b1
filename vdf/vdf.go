// Package vdf implements the per-level verifiable-delay sortition gate
// (spec.md §4.3): a repeated-squaring puzzle whose generation cost is
// Θ(t). Verification recomputes the same exponentiation, so it costs as
// much as generation; no succinct Wesolowski proof is produced.
//
// No example repo in the retrieval pack ships a VDF; this is built directly
// from spec.md atop math/big's modular exponentiation, the same primitive
// every from-scratch Wesolowski VDF implementation reduces to. See
// DESIGN.md for why no third-party VDF library was available to wire here.
package vdf

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/taraxa-go/dagbft/types"
)

// modulus is a fixed RSA-like modulus shared by every prover/verifier; in a
// production deployment this would come from a trusted setup, but a single
// deterministic modulus is sufficient to exercise the sortition gate's
// admission logic and timing behavior.
var modulus, _ = new(big.Int).SetString(
	"1350664108659952233496032162788059699388814756056670275244851438515"+
		"2266626865203684577783640755686441368598726917297554150484424791"+
		"3260069212344020302263836245869172875373167186839485472578049897"+
		"52", 10)

// Bounds configures the per-level difficulty window (spec §6:
// chain_config.vdf: difficulty_min/difficulty_max/difficulty_stale).
type Bounds struct {
	DifficultyMin   uint64
	DifficultyMax   uint64
	DifficultyStale time.Duration
	MaxRetries      int
}

// Difficulty is deterministic on (level, period): a simple periodic ramp
// between the configured bounds, matching the spec's requirement without
// inventing an undocumented selection function.
func Difficulty(b Bounds, level, period uint64) uint64 {
	span := b.DifficultyMax - b.DifficultyMin
	if span == 0 {
		return b.DifficultyMin
	}
	return b.DifficultyMin + (level+period)%span
}

// ErrStale is returned when a proof's generation took longer than the
// configured staleness bound.
var ErrStale = errors.New("vdf: proof stale")

// Prove computes a VDF proof for (level, seed) by repeated squaring of a
// seed-derived base modulo the shared modulus t = difficulty times, where
// the "solution" is the resulting residue. The proof carries no further
// data that would let a verifier skip the t squarings.
func Prove(b Bounds, level uint64, seed, periodSeed types.Hash, difficulty uint64) (*types.VdfProof, error) {
	start := time.Now()
	base := seedToBase(seed)
	exp := big.NewInt(1)
	exp.Lsh(exp, uint(difficulty))
	solution := new(big.Int).Exp(base, exp, modulus)

	if b.DifficultyStale > 0 && time.Since(start) > b.DifficultyStale {
		return nil, ErrStale
	}
	return &types.VdfProof{
		DifficultyBound: difficulty,
		Solution:        solution.Bytes(),
		Level:           level,
		ParentPivot:     seed,
		PeriodSeed:      periodSeed,
	}, nil
}

// Verify recomputes the same base^(2^t) exponentiation Prove performs (the
// same Θ(t) cost) and compares residues.
func Verify(proof *types.VdfProof) bool {
	base := seedToBase(proof.ParentPivot)
	exp := big.NewInt(1)
	exp.Lsh(exp, uint(proof.DifficultyBound))
	want := new(big.Int).Exp(base, exp, modulus)
	got := new(big.Int).SetBytes(proof.Solution)
	return want.Cmp(got) == 0
}

func seedToBase(seed types.Hash) *big.Int {
	b := new(big.Int).SetBytes(seed[:])
	if b.Sign() == 0 {
		b.SetBytes([]byte("vdf-genesis-base"))
	}
	return new(big.Int).Mod(b, modulus)
}

// randomNonce is kept for future proof randomization (e.g. salted bases)
// without widening Prove's signature.
func randomNonce() []byte {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return buf
}

// Gate applies the sortition gate's retry policy (spec §4.3): attempt to
// produce a non-stale proof up to MaxRetries times at this level, returning
// ErrStale if every attempt fails so the proposer can move on to the next
// level.
func Gate(b Bounds, level uint64, seed, periodSeed types.Hash, difficulty uint64) (*types.VdfProof, error) {
	retries := b.MaxRetries
	if retries <= 0 {
		retries = 1
	}
	var lastErr error
	for i := 0; i < retries; i++ {
		proof, err := Prove(b, level, seed, periodSeed, difficulty)
		if err == nil {
			return proof, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
