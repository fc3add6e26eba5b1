// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresetsValidate(t *testing.T) {
	for name, cfg := range map[string]Config{"testnet": Testnet(), "devnet": Devnet(), "main": Mainnet(), "local": Local()} {
		cfg := cfg
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Validate(&cfg))
		})
	}
}

func TestForChainUnknownReturnsError(t *testing.T) {
	_, err := ForChain("nonexistent")
	require.ErrorIs(t, err, ErrUnknownChain)
}

func TestLoadMergesFileOverOverChainDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"network_tcp_port": 20002}`), 0o644))

	cfg, err := Load(path, "testnet")
	require.NoError(t, err)
	require.Equal(t, 20002, cfg.NetworkTCPPort)
	require.Equal(t, 10002, cfg.NetworkUDPPort, "fields the file doesn't set keep the chain preset's value")
}

func TestLoadEmptyPathReturnsPresetUnmodified(t *testing.T) {
	cfg, err := Load("", "devnet")
	require.NoError(t, err)
	want := Devnet()
	require.Equal(t, want, *cfg)
}

func TestWriteJSONThenLoadRoundTrips(t *testing.T) {
	cfg := Testnet()
	raw, err := WriteJSON(&cfg)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	got, err := Load(path, "testnet")
	require.NoError(t, err)
	require.Equal(t, cfg, *got)
}

func TestValidateRejectsIdealExceedingMaxPeerCount(t *testing.T) {
	cfg := Testnet()
	cfg.NetworkIdealPeerCount = cfg.NetworkMaxPeerCount + 1
	require.ErrorIs(t, Validate(&cfg), ErrIdealPeerCountTooHigh)
}

func TestValidateRejectsInvertedVdfDifficultyRange(t *testing.T) {
	cfg := Testnet()
	cfg.ChainConfig.Vdf.DifficultyMin = cfg.ChainConfig.Vdf.DifficultyMax + 1
	require.ErrorIs(t, Validate(&cfg), ErrVdfDifficultyRangeBad)
}
