// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

// Testnet returns the testnet preset, grounded on
// original_source/src/cli/testnet_config.hpp.
func Testnet() Config {
	return Config{
		NetworkTCPPort:        10002,
		NetworkUDPPort:        10002,
		NetworkIdealPeerCount: 5,
		NetworkMaxPeerCount:   15,
		NetworkSyncLevelSize:  25,
		RPC:                   RPC{HTTPPort: 7777, WSPort: 8777, ThreadsNum: 10},
		TestParams:            TestParams{BlockProposer: BlockProposerTestParams{Shard: 1, TransactionLimit: 250}},
		ChainConfig: ChainConfig{
			Pbft: PbftConfig{
				CommitteeSize:     1000,
				NumberOfProposers: 20,
				DagBlocksSize:     50,
				GhostPathMoveBack: 0,
				LambdaMsMin:       666,
				GasLimit:          300_000_000,
			},
			Vdf: VdfConfig{
				DifficultyMin:      16,
				DifficultyMax:      18,
				DifficultyStale:    19,
				ThresholdSelection: 0xbffd,
				ThresholdVdfOmit:   0x6bf7,
				LambdaBound:        100,
			},
		},
	}
}

// Devnet returns the devnet preset, grounded on
// original_source/src/cli/devnet_config.hpp.
func Devnet() Config {
	c := Testnet()
	c.ChainConfig.Pbft.LambdaMsMin = 666
	c.TestParams.BlockProposer.TransactionLimit = 50
	return c
}

// Mainnet returns the main-chain preset: testnet's network/RPC shape with
// production-grade PBFT/VDF tuning (higher committee size and VDF
// difficulty floor, reflecting spec.md §6's "main" chain choice).
func Mainnet() Config {
	c := Testnet()
	c.ChainConfig.Pbft.CommitteeSize = 6000
	c.ChainConfig.Pbft.NumberOfProposers = 20
	c.ChainConfig.Vdf.DifficultyMin = 18
	c.ChainConfig.Vdf.DifficultyMax = 21
	return c
}

// Local returns a fast-iteration local development preset: small
// committee, minimal VDF cost, single-shard proposer.
func Local() Config {
	return Config{
		NetworkTCPPort:        10002,
		NetworkUDPPort:        10002,
		NetworkIdealPeerCount: 3,
		NetworkMaxPeerCount:   5,
		NetworkSyncLevelSize:  10,
		RPC:                   RPC{HTTPPort: 7777, WSPort: 8777, ThreadsNum: 2},
		TestParams:            TestParams{BlockProposer: BlockProposerTestParams{Shard: 1, TransactionLimit: 100}},
		ChainConfig: ChainConfig{
			Pbft: PbftConfig{
				CommitteeSize:     5,
				NumberOfProposers: 5,
				DagBlocksSize:     10,
				GhostPathMoveBack: 0,
				LambdaMsMin:       50,
				GasLimit:          300_000_000,
			},
			Vdf: VdfConfig{
				DifficultyMin:      1,
				DifficultyMax:      2,
				DifficultyStale:    3,
				ThresholdSelection: 0xffff,
				ThresholdVdfOmit:   0xffff,
				LambdaBound:        10,
			},
		},
	}
}

// ForChain resolves the --chain CLI flag (spec.md §6) to its preset.
func ForChain(name string) (Config, error) {
	switch name {
	case "testnet":
		return Testnet(), nil
	case "devnet":
		return Devnet(), nil
	case "main":
		return Mainnet(), nil
	default:
		return Config{}, ErrUnknownChain
	}
}
