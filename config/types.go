// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the node's JSON configuration schema (spec.md
// §6) and its chain-preset defaults, in the style of the teacher's
// config/parameters.go Parameters-struct-plus-named-presets idiom.
package config

// BootNode is one seed peer in network_boot_nodes.
type BootNode struct {
	ID      string `json:"id"`
	IP      string `json:"ip"`
	TCPPort int    `json:"tcp_port"`
	UDPPort int    `json:"udp_port"`
}

// RPC is the rpc object (spec.md §6).
type RPC struct {
	HTTPPort   int `json:"http_port"`
	WSPort     int `json:"ws_port"`
	ThreadsNum int `json:"threads_num"`
}

// BlockProposerTestParams is test_params.block_proposer (spec.md §6).
type BlockProposerTestParams struct {
	Shard            uint32 `json:"shard"`
	TransactionLimit int    `json:"transaction_limit"`
}

// TestParams is the test_params object (spec.md §6).
type TestParams struct {
	BlockProposer BlockProposerTestParams `json:"block_proposer"`
}

// PbftConfig is chain_config.pbft (spec.md §6).
type PbftConfig struct {
	CommitteeSize     uint64 `json:"committee_size"`
	NumberOfProposers uint64 `json:"number_of_proposers"`
	DagBlocksSize     uint64 `json:"dag_blocks_size"`
	GhostPathMoveBack uint64 `json:"ghost_path_move_back"`
	LambdaMsMin       uint64 `json:"lambda_ms_min"`
	GasLimit          uint64 `json:"gas_limit"`
}

// VdfConfig is chain_config.vdf (spec.md §6).
type VdfConfig struct {
	DifficultyMin      uint16 `json:"difficulty_min"`
	DifficultyMax      uint16 `json:"difficulty_max"`
	DifficultyStale    uint16 `json:"difficulty_stale"`
	ThresholdSelection uint16 `json:"threshold_selection"`
	ThresholdVdfOmit   uint16 `json:"threshold_vdf_omit"`
	LambdaBound        uint16 `json:"lambda_bound"`
}

// DagGenesisBlock is chain_config.dag_genesis_block: the chain's first DAG
// block payload, reduced to the two fields the node reads (its level and
// its proposer string) rather than a full types.DagBlock.
type DagGenesisBlock struct {
	Level    uint64 `json:"level"`
	Proposer string `json:"proposer"`
}

// ChainConfig is the chain_config object (spec.md §6).
type ChainConfig struct {
	Pbft            PbftConfig      `json:"pbft"`
	Vdf             VdfConfig       `json:"vdf"`
	DagGenesisBlock DagGenesisBlock `json:"dag_genesis_block"`
}

// Config is the full node configuration, matching spec.md §6's JSON schema
// field-for-field; network_* keys are flat (not nested under "network"),
// per original_source's testnet_config.hpp/devnet_config.hpp.
type Config struct {
	NodeSecret string `json:"node_secret"`
	VrfSecret  string `json:"vrf_secret"`
	DataPath   string `json:"data_path"`

	NetworkIsBootNode      bool       `json:"network_is_boot_node"`
	NetworkAddress         string     `json:"network_address"`
	NetworkTCPPort         int        `json:"network_tcp_port"`
	NetworkUDPPort         int        `json:"network_udp_port"`
	NetworkIdealPeerCount  int        `json:"network_ideal_peer_count"`
	NetworkMaxPeerCount    int        `json:"network_max_peer_count"`
	NetworkSyncLevelSize   uint64     `json:"network_sync_level_size"`
	NetworkBootNodes       []BootNode `json:"network_boot_nodes"`

	RPC         RPC         `json:"rpc"`
	TestParams  TestParams  `json:"test_params"`
	ChainConfig ChainConfig `json:"chain_config"`
}
