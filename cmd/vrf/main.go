// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command vrf generates or inspects the VRF sortition keys used by the DAG
// block proposer and PBFT vote placement (spec.md §6: `vrf [new | show
// --key HEX]`; spec.md §4.3/§4.8 on VRF sortition).
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/taraxa-go/dagbft/crypto"
)

const (
	exitOK     = 0
	exitFail   = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: vrf [new | show --key HEX]")
		return exitConfig
	}

	switch args[0] {
	case "new":
		kp, err := crypto.GenerateKeyPair()
		if err != nil {
			fmt.Fprintf(os.Stderr, "vrf: %v\n", err)
			return exitFail
		}
		fmt.Printf("public: %s\n", hex.EncodeToString(kp.Public))
		fmt.Printf("secret: %s\n", hex.EncodeToString(kp.Private.Seed()))
		return exitOK

	case "show":
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		key := fs.String("key", "", "hex-encoded 32-byte ed25519 VRF seed")
		if err := fs.Parse(args[1:]); err != nil {
			return exitConfig
		}
		seed, err := hex.DecodeString(*key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vrf: invalid --key: %v\n", err)
			return exitConfig
		}
		kp, err := crypto.KeyPairFromSeed(seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vrf: %v\n", err)
			return exitConfig
		}
		fmt.Printf("public: %s\n", hex.EncodeToString(kp.Public))
		return exitOK

	default:
		fmt.Fprintln(os.Stderr, "usage: vrf [new | show --key HEX]")
		return exitConfig
	}
}
