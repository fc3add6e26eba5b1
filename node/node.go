// Package node wires every subsystem (DAG graph, DAG manager, tx pool,
// vote manager, PBFT chain, PBFT state machine, proposer, executor,
// storage, gossip) into one long-lived process.
//
// spec.md §9's design note on the source's weak_ptr back-references
// (proposer->network, round->manager) is applied here: Node is the single
// owning root; every subsystem it constructs receives borrowed references
// to its collaborators instead of owning them itself. The only reference
// back up to Node is the DAG proposer's, which sees it solely through the
// narrow proposer.Clock interface.
package node

import (
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taraxa-go/dagbft/config"
	"github.com/taraxa-go/dagbft/crypto"
	"github.com/taraxa-go/dagbft/dag"
	"github.com/taraxa-go/dagbft/dagmgr"
	"github.com/taraxa-go/dagbft/executor"
	"github.com/taraxa-go/dagbft/gossip"
	dagbftlog "github.com/taraxa-go/dagbft/log"
	"github.com/taraxa-go/dagbft/metrics"
	"github.com/taraxa-go/dagbft/pbft"
	"github.com/taraxa-go/dagbft/pbftchain"
	"github.com/taraxa-go/dagbft/proposer"
	"github.com/taraxa-go/dagbft/storage"
	"github.com/taraxa-go/dagbft/txpool"
	"github.com/taraxa-go/dagbft/types"
	"github.com/taraxa-go/dagbft/validator"
	"github.com/taraxa-go/dagbft/vdf"
	"github.com/taraxa-go/dagbft/vote"
)

// ValidatorSource resolves the DPoS stake snapshot for a period. A node
// running without an external staking ledger can supply a source that
// always returns the same fixed set.
type ValidatorSource func(period uint64) []*validator.Validator

// Send delivers an outbound gossip message to a single peer; supplied by
// whatever transport (TCP, libp2p, ...) the node is wired to.
type Send func(ids.NodeID, gossip.Message) error

// Node owns every long-lived subsystem for one validator process.
type Node struct {
	log     log.Logger
	cfg     *config.Config
	metrics *metrics.DagBft

	key  *crypto.KeyPair
	self types.Address

	graph   *dag.Dag
	vreg    *validator.Registry
	dagMgr  *dagmgr.Manager
	pool    *txpool.Pool
	votes   *vote.Manager
	chain   *pbftchain.Chain
	store   *storage.Store
	exec    *executor.Executor
	dagProp *proposer.DagProposer
	machine *pbft.Machine

	peers       *gossip.Peers
	broadcaster *gossip.Broadcaster

	syncing atomic.Bool
}

// Syncing reports whether the node is still catching up, gating both the
// PBFT machine tick in Run and, through proposer.Clock, the DAG proposer
// tick.
func (n *Node) Syncing() bool { return n.syncing.Load() }

// SetSyncing flips the syncing flag.
func (n *Node) SetSyncing(v bool) { n.syncing.Store(v) }

// Metrics exposes the node's collector set, e.g. for an HTTP /metrics
// handler.
func (n *Node) Metrics() *metrics.DagBft { return n.metrics }

// Peers exposes the gossip peer table for the networking layer to update
// on connect/disconnect.
func (n *Node) Peers() *gossip.Peers { return n.peers }

// New constructs a Node from a parsed config, a logger, a durable KV
// database, a DPoS stake source, a metrics registerer and the transport's
// outbound send hook.
func New(cfg *config.Config, logger log.Logger, db database.Database, reg prometheus.Registerer, validators ValidatorSource, send Send) (*Node, error) {
	seed, err := hex.DecodeString(cfg.NodeSecret)
	if err != nil {
		return nil, fmt.Errorf("node: decoding node_secret: %w", err)
	}
	key, err := crypto.KeyPairFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}
	self := key.Address()

	mset, err := metrics.NewDagBft(reg)
	if err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}

	genesis := crypto.Keccak256([]byte(cfg.ChainConfig.DagGenesisBlock.Proposer))
	graph := dag.New(genesis)
	vreg := validator.NewRegistry(1, func(period uint64) []*validator.Validator { return validators(period) })

	pool := txpool.New(0)
	votes := vote.New(100)
	chain := pbftchain.New()
	store := storage.New(db)

	txOf := pool.Get
	dagBlockOf := graph.Block

	sigOK := func(block *types.DagBlock) bool {
		v, ok := vreg.At(block.Level).Get(block.Proposer)
		if !ok {
			return false
		}
		return crypto.Verify(v.PublicKey, block.SigningPayload(), block.Signature)
	}
	dagMgr := dagmgr.New(
		dagbftlog.Component(logger, "dagmgr"), graph, vreg,
		pool.Has,
		vdf.Verify,
		sigOK,
		cfg.ChainConfig.Pbft.GasLimit, 10_000,
	)

	exec := executor.New(graph, chain, pool, votes, store, dagBlockOf, txOf, 100)

	proposalCfg := proposer.PbftProposalConfig{
		DagBlocksSize:     cfg.ChainConfig.Pbft.DagBlocksSize,
		GhostPathMoveBack: cfg.ChainConfig.Pbft.GhostPathMoveBack,
		GasLimit:          cfg.ChainConfig.Pbft.GasLimit,
	}
	vset := vreg.At(0)

	n := &Node{
		log: logger, cfg: cfg, metrics: mset,
		key: key, self: self,
		graph: graph, vreg: vreg, dagMgr: dagMgr, pool: pool, votes: votes, chain: chain, store: store,
		exec: exec,
		peers: gossip.NewPeers(),
	}
	n.broadcaster = gossip.NewBroadcaster(n.peers, send)

	n.dagProp = proposer.New(
		dagbftlog.Component(logger, "proposer"), graph, dagMgr, pool, vreg, key,
		vdf.Bounds{
			DifficultyMin:   uint64(cfg.ChainConfig.Vdf.DifficultyMin),
			DifficultyMax:   uint64(cfg.ChainConfig.Vdf.DifficultyMax),
			DifficultyStale: time.Duration(cfg.ChainConfig.Vdf.DifficultyStale) * time.Millisecond,
		},
		1, uint64(cfg.TestParams.BlockProposer.Shard), uint64(cfg.TestParams.BlockProposer.TransactionLimit), n,
	)

	machine := pbft.NewMachine(
		dagbftlog.Component(logger, "pbft"), graph, votes, chain, vset, key, self, proposalCfg,
		dagBlockOf, func() types.Hash { return chain.LastBlockHash() },
		func(types.Hash) bool { return true },
		time.Duration(cfg.ChainConfig.Pbft.LambdaMsMin)*time.Millisecond,
	)
	machine.OnCommit = n.onCommit
	n.machine = machine

	return n, nil
}

// onCommit is invoked by the PBFT machine whenever a block reaches 2t+1
// cert-votes; it hands the certified block to the executor for atomic
// commit.
func (n *Node) onCommit(blockHash types.Hash) {
	block := n.chain.GetUnverified(blockHash)
	if block == nil {
		return
	}
	round := n.machine.Current().Round
	threshold := n.vreg.At(block.Period).Threshold()
	_, certVotes, ok := n.votes.Bundle(block.Period, round, uint64(pbft.StepCertify), threshold)
	if !ok {
		return
	}
	if _, err := n.exec.Commit(block, certVotes); err != nil {
		n.log.Error("commit failed", "period", block.Period, "err", err)
		return
	}
	n.metrics.CertifiedBlocks.Inc()
	n.metrics.PbftPeriod.Set(float64(block.Period))
}

// Run drives the node's ticking subsystems (DAG proposer, PBFT machine)
// until stop fires.
func (n *Node) Run(stop <-chan struct{}) {
	dagStop := make(chan struct{})
	go n.dagProp.Run(dagStop)
	defer close(dagStop)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n.Syncing() {
				continue
			}
			n.machine.Tick()
			n.metrics.PbftRound.Set(float64(n.machine.Current().Round))
			n.metrics.PbftStep.Set(float64(n.machine.Current().Step))
			n.metrics.TxPoolDepth.Set(float64(n.pool.Size()))
		}
	}
}
