// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command account generates or inspects ed25519 node identities (spec.md
// §6: `account [new | show --key HEX]`).
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/taraxa-go/dagbft/crypto"
)

const (
	exitOK   = 0
	exitFail = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: account [new | show --key HEX]")
		return exitConfig
	}

	switch args[0] {
	case "new":
		kp, err := crypto.GenerateKeyPair()
		if err != nil {
			fmt.Fprintf(os.Stderr, "account: %v\n", err)
			return exitFail
		}
		fmt.Printf("address: %s\n", kp.Address())
		fmt.Printf("secret:  %s\n", hex.EncodeToString(kp.Private.Seed()))
		return exitOK

	case "show":
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		key := fs.String("key", "", "hex-encoded 32-byte ed25519 seed")
		if err := fs.Parse(args[1:]); err != nil {
			return exitConfig
		}
		seed, err := hex.DecodeString(*key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "account: invalid --key: %v\n", err)
			return exitConfig
		}
		kp, err := crypto.KeyPairFromSeed(seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "account: %v\n", err)
			return exitConfig
		}
		fmt.Printf("address: %s\n", kp.Address())
		return exitOK

	default:
		fmt.Fprintln(os.Stderr, "usage: account [new | show --key HEX]")
		return exitConfig
	}
}
