package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	f()
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestRunNewPrintsAddressAndSecret(t *testing.T) {
	out := captureStdout(t, func() {
		require.Equal(t, exitOK, run([]string{"new"}))
	})
	require.Contains(t, out, "address:")
	require.Contains(t, out, "secret:")
}

func TestRunShowRejectsInvalidKey(t *testing.T) {
	require.Equal(t, exitConfig, run([]string{"show", "--key", "not-hex"}))
}

func TestRunNoArgsReturnsConfigError(t *testing.T) {
	require.Equal(t, exitConfig, run(nil))
}
