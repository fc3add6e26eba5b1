package vdf

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taraxa-go/dagbft/types"
)

func TestProveVerifyRoundTrip(t *testing.T) {
	b := Bounds{DifficultyMin: 4, DifficultyMax: 20, MaxRetries: 3}
	seed := types.Hash{1, 2, 3}
	periodSeed := types.Hash{4}
	proof, err := Prove(b, 1, seed, periodSeed, Difficulty(b, 1, 0))
	require.NoError(t, err)
	require.True(t, Verify(proof))
}

func TestVerifyRejectsTamperedSolution(t *testing.T) {
	b := Bounds{DifficultyMin: 4, DifficultyMax: 20, MaxRetries: 3}
	seed := types.Hash{1}
	proof, err := Prove(b, 1, seed, types.Hash{}, Difficulty(b, 1, 0))
	require.NoError(t, err)
	proof.Solution[0] ^= 0xFF
	require.False(t, Verify(proof))
}

func TestDifficultyDeterministic(t *testing.T) {
	b := Bounds{DifficultyMin: 4, DifficultyMax: 20}
	require.Equal(t, Difficulty(b, 5, 2), Difficulty(b, 5, 2))
}
