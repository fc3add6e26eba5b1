// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewDagBftRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewDagBft(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	m.DagBlocksAdmitted.Inc()
	m.PbftRound.Set(3)
	m.VotesReceived.WithLabelValues("cert").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewDagBftRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewDagBft(reg)
	require.NoError(t, err)

	_, err = NewDagBft(reg)
	require.Error(t, err)
}
