// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command node runs a single DAG+PBFT validator process (spec.md §6).
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taraxa-go/dagbft/config"
	"github.com/taraxa-go/dagbft/gossip"
	"github.com/taraxa-go/dagbft/node"
	"github.com/taraxa-go/dagbft/validator"
)

const (
	exitOK   = 0
	exitFail = 1
	exitConfig = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a JSON config file (chain_config preset values may be omitted)")
	dataDir := flag.String("data-dir", "./data", "directory for persisted chain state")
	bootNode := flag.Bool("boot-node", false, "run as a boot node")
	chain := flag.String("chain", "testnet", "chain preset: testnet, devnet, or main")
	metricsAddr := flag.String("metrics-addr", ":9090", "address to serve /metrics on")
	flag.Parse()

	logger := log.NewLogger("node")

	cfg, err := config.Load(*configPath, *chain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "node: %v\n", err)
		return exitConfig
	}
	cfg.NetworkIsBootNode = *bootNode || cfg.NetworkIsBootNode
	cfg.DataPath = *dataDir
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "node: invalid config: %v\n", err)
		return exitConfig
	}

	// The retrieval pack confirms only memdb.New() as a real
	// github.com/luxfi/database constructor (see DESIGN.md); no on-disk
	// backend call site exists anywhere in it to ground a persistent
	// choice against, so this binary runs in-memory for now.
	db := memdb.New()

	reg := prometheus.NewRegistry()
	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			logger.Warn("metrics server stopped", "err", err)
		}
	}()

	validators := func(period uint64) []*validator.Validator {
		return nil // no stake source wired: every period's snapshot is empty, so no address is eligible
	}

	n, err := node.New(cfg, logger, db, reg, validators, func(ids.NodeID, gossip.Message) error { return nil })
	if err != nil {
		fmt.Fprintf(os.Stderr, "node: %v\n", err)
		return exitFail
	}

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		close(stop)
	}()

	n.Run(stop)
	return exitOK
}
