// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"os"
)

// Load reads and parses a JSON config file at path, starting from the
// named chain's preset so any field the file omits keeps its chain
// default — mirroring the original CLI's "defaults merged with
// user-supplied overrides" behavior.
func Load(path, chain string) (*Config, error) {
	cfg, err := ForChain(chain)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteJSON serializes cfg as indented JSON, the inverse of Load's
// Unmarshal step (spec.md §8's round-trip law: parse_json(write_json(cfg))
// == cfg).
func WriteJSON(cfg *Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}
