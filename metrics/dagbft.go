// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// DagBft groups the per-subsystem prometheus collectors exposed by a
// running node: DAG admission, PBFT round progress, vote tallies, and
// the backlog depth of the transaction/DAG-block/vote queues feeding
// the PBFT proposer. One instance is constructed per node and updated
// by the node itself (on commit and on each PBFT tick), the same shape as
// protocol/prism/early_term_traversal.go's per-component metrics struct.
type DagBft struct {
	DagBlocksAdmitted   prometheus.Counter
	DagBlocksRejected   prometheus.Counter
	DagLevel            prometheus.Gauge
	DagVerticesTotal    prometheus.Gauge

	PbftRound  prometheus.Gauge
	PbftStep   prometheus.Gauge
	PbftPeriod prometheus.Gauge

	VotesReceived  *prometheus.CounterVec
	VotesRejected  *prometheus.CounterVec
	CertifiedBlocks prometheus.Counter

	TxPoolDepth      prometheus.Gauge
	DagBlockQueueLen prometheus.Gauge
	VoteQueueLen     prometheus.Gauge
}

// NewDagBft constructs and registers the full metric set against reg.
func NewDagBft(reg prometheus.Registerer) (*DagBft, error) {
	m := &DagBft{
		DagBlocksAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dag_blocks_admitted_total",
			Help: "Total # of DAG blocks accepted into the local DAG",
		}),
		DagBlocksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dag_blocks_rejected_total",
			Help: "Total # of DAG blocks rejected during verification",
		}),
		DagLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dag_level",
			Help: "Highest DAG level observed locally",
		}),
		DagVerticesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dag_vertices_total",
			Help: "Total # of DAG blocks stored locally",
		}),
		PbftRound: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pbft_round",
			Help: "Current PBFT round",
		}),
		PbftStep: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pbft_step",
			Help: "Current PBFT step within the round",
		}),
		PbftPeriod: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pbft_period",
			Help: "Last finalized PBFT period",
		}),
		VotesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pbft_votes_received_total",
			Help: "Total # of votes received by type",
		}, []string{"vote_type"}),
		VotesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pbft_votes_rejected_total",
			Help: "Total # of votes rejected during verification, by reason",
		}, []string{"reason"}),
		CertifiedBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pbft_blocks_certified_total",
			Help: "Total # of PBFT blocks that reached a 2t+1 cert vote",
		}),
		TxPoolDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tx_pool_depth",
			Help: "# of transactions currently pending in the pool",
		}),
		DagBlockQueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dag_block_queue_len",
			Help: "# of DAG blocks awaiting their missing parents/tips",
		}),
		VoteQueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vote_queue_len",
			Help: "# of votes buffered for a round we have not yet reached",
		}),
	}

	collectors := []prometheus.Collector{
		m.DagBlocksAdmitted, m.DagBlocksRejected, m.DagLevel, m.DagVerticesTotal,
		m.PbftRound, m.PbftStep, m.PbftPeriod,
		m.VotesReceived, m.VotesRejected, m.CertifiedBlocks,
		m.TxPoolDepth, m.DagBlockQueueLen, m.VoteQueueLen,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: registering collector: %w", err)
		}
	}
	return m, nil
}
