// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

// Validation errors, replacing the teacher's Avalanche K/Alpha/Beta
// sampling-threshold sentinels with spec.md §6's schema's own constraints.
var (
	ErrUnknownChain          = errors.New("config: unknown chain (want testnet, devnet, or main)")
	ErrInvalidTCPPort        = errors.New("config: network_tcp_port must be in (0, 65536)")
	ErrInvalidUDPPort        = errors.New("config: network_udp_port must be in (0, 65536)")
	ErrIdealPeerCountTooHigh = errors.New("config: network_ideal_peer_count must be <= network_max_peer_count")
	ErrCommitteeSizeTooLow   = errors.New("config: chain_config.pbft.committee_size must be >= 1")
	ErrLambdaMsMinTooLow     = errors.New("config: chain_config.pbft.lambda_ms_min must be >= 1")
	ErrGasLimitTooLow        = errors.New("config: chain_config.pbft.gas_limit must be >= 21000")
	ErrDagBlocksSizeTooLow   = errors.New("config: chain_config.pbft.dag_blocks_size must be >= 1")
	ErrVdfDifficultyRangeBad = errors.New("config: chain_config.vdf.difficulty_min must be <= difficulty_max")
	ErrHTTPPortEqualsWSPort  = errors.New("config: rpc.http_port and rpc.ws_port must differ")
)
