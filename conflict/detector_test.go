package conflict

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taraxa-go/dagbft/types"
)

// TestScenarioS3 implements spec.md §8 scenario S3.
func TestScenarioS3(t *testing.T) {
	d := New(2)
	key := types.ConflictKey{Contract: types.Address{1}, Slot: types.Hash{2}}
	t1 := types.Hash{0xAA}
	t2 := types.Hash{0xBB}

	require.True(t, d.Load(key, t1)) // absent -> (T1, read)
	require.True(t, d.Store(key, t2)) // (T1, read) -> CAS to (T2, write)
	require.False(t, d.Load(key, t1)) // (T2, write), T1 != T2 -> false
}

func TestSameTxAlwaysSucceeds(t *testing.T) {
	d := New(1)
	key := types.ConflictKey{Contract: types.Address{1}, Slot: types.Hash{2}}
	tx := types.Hash{1}
	require.True(t, d.Store(key, tx))
	require.True(t, d.Load(key, tx))
	require.True(t, d.Store(key, tx))
}

func TestSharedReadersDontBlockEachOther(t *testing.T) {
	d := New(1)
	key := types.ConflictKey{Contract: types.Address{1}, Slot: types.Hash{2}}
	t1, t2, t3 := types.Hash{1}, types.Hash{2}, types.Hash{3}
	require.True(t, d.Load(key, t1))
	require.True(t, d.Load(key, t2)) // promotes to shared
	require.True(t, d.Load(key, t3)) // shared reads keep succeeding
	require.False(t, d.Store(key, t3)) // store against shared fails
}
