package hdfs

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCluster builds 1 namenode + dataNodes data nodes with a seeded
// placement RNG.
func newTestCluster(t *testing.T, dataNodes, replica int, seed int64) (*HDFS, []*PhysicalNode) {
	t.Helper()
	nodes := make([]*PhysicalNode, dataNodes+1)
	for i := range nodes {
		nodes[i] = NewPhysicalNode(fmt.Sprintf("node_%d", i), DefaultResourceRates())
	}
	rng := rand.New(rand.NewSource(seed))
	h, err := NewCluster(nodes, Config{Replica: replica}, rng)
	require.NoError(t, err)
	return h, nodes
}

func TestNewHDFS_ReplicaExceedsDataNodes(t *testing.T) {
	for _, tc := range []struct{ dataNodes, replica int }{
		{1, 2}, {2, 3}, {3, 5}, {0, 1},
	} {
		nodes := make([]*PhysicalNode, tc.dataNodes+1)
		for i := range nodes {
			nodes[i] = NewPhysicalNode(fmt.Sprintf("node_%d", i), DefaultResourceRates())
		}
		nameNode, err := NewNameNode("namenode", nodes[0], NameNodeConfig{})
		require.NoError(t, err)
		dns := make([]DataNode, 0, tc.dataNodes)
		for i, phy := range nodes[1:] {
			dn, err := NewDataNode(fmt.Sprintf("datanode_%d", i), phy, DataNodeConfig{})
			require.NoError(t, err)
			dns = append(dns, dn)
		}

		_, err = NewHDFS(nameNode, dns, tc.replica, rand.New(rand.NewSource(1)))
		assert.Error(t, err, "replica=%d dataNodes=%d", tc.replica, tc.dataNodes)
	}
}

func TestNewCluster_RequiresTwoNodes(t *testing.T) {
	nodes := []*PhysicalNode{NewPhysicalNode("only", DefaultResourceRates())}
	_, err := NewCluster(nodes, Config{Replica: 1}, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 physical nodes")
}

func TestConfigValidate_Preconditions(t *testing.T) {
	bad := []Config{
		{Nodes: 1, Replica: 1},
		{Nodes: 4, Replica: 0},
		{Nodes: 4, Replica: 4}, // 4 nodes = 3 datanodes
		{Nodes: 4, Replica: 3, Resources: &ResourceRates{CPURate: 0, IORate: 1, NetRate: 1}},
	}
	for i, cfg := range bad {
		assert.Error(t, cfg.Validate(), "config[%d]", i)
	}
	good := Config{Nodes: 4, Replica: 3}
	assert.NoError(t, good.Validate())
}

func TestPlaceReplicas_DistinctForAllFactors(t *testing.T) {
	const dataNodes = 6
	for replica := 1; replica <= dataNodes; replica++ {
		h, _ := newTestCluster(t, dataNodes, replica, int64(replica))
		for trial := 0; trial < 200; trial++ {
			chain := h.placeReplicas(nil)
			require.Len(t, chain, replica)
			seen := map[DataNode]bool{}
			for _, dn := range chain {
				assert.False(t, seen[dn], "replica=%d trial=%d: repeated datanode", replica, trial)
				seen[dn] = true
			}
		}
	}
}

func TestPlaceReplicas_LocalityFirst(t *testing.T) {
	h, nodes := newTestCluster(t, 5, 3, 99)

	// nodes[2] hosts dataNodes[1]
	origin := nodes[2]
	for trial := 0; trial < 200; trial++ {
		chain := h.placeReplicas(origin)
		require.Len(t, chain, 3)
		assert.Same(t, h.DataNodes()[1], chain[0], "trial %d", trial)
	}
}

func TestPlaceReplicas_UnknownOrigin_NoLocalityHead(t *testing.T) {
	h, _ := newTestCluster(t, 3, 3, 7)
	outsider := NewPhysicalNode("outsider", DefaultResourceRates())

	chain := h.placeReplicas(outsider)

	require.Len(t, chain, 3)
}

func TestReadRequest_UniformNodeSelection(t *testing.T) {
	const dataNodes = 4
	const trials = 4000
	h, _ := newTestCluster(t, dataNodes, 2, 1234)

	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		req, _ := h.ReadRequest(1, 64e3)
		counts[req.Stage().Name()]++
	}

	require.Len(t, counts, dataNodes)
	for name, n := range counts {
		freq := float64(n) / trials
		assert.InDelta(t, 1.0/dataNodes, freq, 0.05, "node %s selected with frequency %v", name, freq)
	}
}

func TestShortCircuitRequest_LocalNode(t *testing.T) {
	h, nodes := newTestCluster(t, 3, 2, 5)

	req, done, err := h.ShortCircuitRequest(nodes[1], 1, 64e3)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, 64e3, req.DemandOn(nodes[1].IO))
	assert.Zero(t, req.DemandOn(nodes[1].Net))
}

func TestShortCircuitRequest_NoLocalDataNode(t *testing.T) {
	h, nodes := newTestCluster(t, 3, 2, 5)

	// the namenode's physical node hosts no datanode, nor does an outsider
	for _, origin := range []*PhysicalNode{nodes[0], NewPhysicalNode("outsider", DefaultResourceRates()), nil} {
		_, _, err := h.ShortCircuitRequest(origin, 1, 64e3)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoLocalDataNode))
	}
}

func TestLookupRequest_HoldsNamespaceLock(t *testing.T) {
	h, _ := newTestCluster(t, 3, 2, 5)

	req, done := h.LookupRequest(7, 250)

	assert.Equal(t, 250.0, req.DemandOn(h.NameNode().Lock()))
	assert.Same(t, req.Done(), done)
	assert.Equal(t, 7, req.ClientID())
}
