package main

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunRejectsUnknownChain(t *testing.T) {
	oldFlagSet := flag.CommandLine
	oldArgs := os.Args
	defer func() {
		flag.CommandLine = oldFlagSet
		os.Args = oldArgs
	}()
	flag.CommandLine = flag.NewFlagSet("node", flag.ContinueOnError)
	os.Args = []string{"node", "--chain", "nonexistent"}

	require.Equal(t, exitConfig, run())
}
