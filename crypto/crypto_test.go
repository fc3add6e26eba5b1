package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	msg := []byte("hello")
	sig := kp.Sign(msg)
	require.True(t, Verify(kp.Public, msg, sig))
	require.False(t, Verify(kp.Public, []byte("tampered"), sig))
}

func TestVrfProveVerify(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	seed := []byte("round-seed")
	proof, out := VrfProve(kp.Private, seed)
	out2, ok := VrfVerify(kp.Public, seed, proof)
	require.True(t, ok)
	require.Equal(t, out, out2)
}

func TestKeyPairFromSeedIsDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	kp1, err := KeyPairFromSeed(seed)
	require.NoError(t, err)
	kp2, err := KeyPairFromSeed(seed)
	require.NoError(t, err)
	require.Equal(t, kp1.Public, kp2.Public)
	require.Equal(t, kp1.Address(), kp2.Address())
}

func TestKeyPairFromSeedRejectsWrongLength(t *testing.T) {
	_, err := KeyPairFromSeed([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestKeccak256Deterministic(t *testing.T) {
	require.Equal(t, Keccak256([]byte("a"), []byte("b")), Keccak256([]byte("a"), []byte("b")))
	require.NotEqual(t, Keccak256([]byte("a")), Keccak256([]byte("b")))
}
