// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

// Validate checks a parsed Config against spec.md §6's schema
// constraints, returning the first violation found.
func Validate(c *Config) error {
	if c.NetworkTCPPort <= 0 || c.NetworkTCPPort >= 65536 {
		return ErrInvalidTCPPort
	}
	if c.NetworkUDPPort <= 0 || c.NetworkUDPPort >= 65536 {
		return ErrInvalidUDPPort
	}
	if c.NetworkIdealPeerCount > c.NetworkMaxPeerCount {
		return ErrIdealPeerCountTooHigh
	}
	if c.ChainConfig.Pbft.CommitteeSize < 1 {
		return ErrCommitteeSizeTooLow
	}
	if c.ChainConfig.Pbft.LambdaMsMin < 1 {
		return ErrLambdaMsMinTooLow
	}
	if c.ChainConfig.Pbft.GasLimit < 21000 {
		return ErrGasLimitTooLow
	}
	if c.ChainConfig.Pbft.DagBlocksSize < 1 {
		return ErrDagBlocksSizeTooLow
	}
	if c.ChainConfig.Vdf.DifficultyMin > c.ChainConfig.Vdf.DifficultyMax {
		return ErrVdfDifficultyRangeBad
	}
	if c.RPC.HTTPPort == c.RPC.WSPort {
		return ErrHTTPPortEqualsWSPort
	}
	return nil
}
