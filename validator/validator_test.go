package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taraxa-go/dagbft/types"
)

func TestTwoTPlusOne(t *testing.T) {
	require.Equal(t, uint64(0), TwoTPlusOne(0))
	require.Equal(t, uint64(1), TwoTPlusOne(1))
	require.Equal(t, uint64(3), TwoTPlusOne(4))
	require.Equal(t, uint64(5), TwoTPlusOne(7))
}

func TestSetEligibilityFiltersLowStake(t *testing.T) {
	vs := []*Validator{
		{Address: types.Address{1}, Weight: 100},
		{Address: types.Address{2}, Weight: 5},
	}
	s := NewSet(10, vs, 50)
	require.True(t, s.Eligible(types.Address{1}))
	require.False(t, s.Eligible(types.Address{2}))
	require.Equal(t, uint64(100), s.TotalWeight())
}

func TestRegistryCaches(t *testing.T) {
	calls := 0
	reg := NewRegistry(0, func(period uint64) []*Validator {
		calls++
		return []*Validator{{Address: types.Address{1}, Weight: 10}}
	})
	reg.At(5)
	reg.At(5)
	require.Equal(t, 1, calls)
}
