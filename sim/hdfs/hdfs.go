package hdfs

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/hdfs-sim/hdfs-sim/sim"
	"github.com/hdfs-sim/hdfs-sim/sim/seda"
)

// ErrNoLocalDataNode is returned by ShortCircuitRequest when the
// originating physical node hosts no data node.
var ErrNoLocalDataNode = errors.New("no datanode co-located with physical node")

// HDFS is the cluster facade: it owns the name node and the ordered set of
// data nodes, selects replicas, and routes request composition. Data-node
// order is construction order, used only for indexing.
type HDFS struct {
	nameNode  *NameNode
	dataNodes []DataNode
	replica   int
	rng       *rand.Rand
}

// NewHDFS assembles a cluster facade over already-constructed nodes. The
// replica factor must be at least 1 and must not exceed the data-node
// count. rng drives replica placement and read-node selection; inject a
// seeded source for reproducible runs.
func NewHDFS(nameNode *NameNode, dataNodes []DataNode, replica int, rng *rand.Rand) (*HDFS, error) {
	if replica < 1 {
		return nil, fmt.Errorf("replica factor must be >= 1, got %d", replica)
	}
	if replica > len(dataNodes) {
		return nil, fmt.Errorf("replica factor %d exceeds datanode count %d", replica, len(dataNodes))
	}
	return &HDFS{nameNode: nameNode, dataNodes: dataNodes, replica: replica, rng: rng}, nil
}

// NewCluster assembles a cluster over an explicit physical topology: the
// first node hosts the name node, every remaining node hosts one data node.
func NewCluster(nodes []*PhysicalNode, cfg Config, rng *rand.Rand) (*HDFS, error) {
	if len(nodes) < 2 {
		return nil, fmt.Errorf("cluster requires at least 2 physical nodes, got %d", len(nodes))
	}
	nameNode, err := NewNameNode("namenode", nodes[0], cfg.NameNode)
	if err != nil {
		return nil, err
	}
	dataNodes := make([]DataNode, 0, len(nodes)-1)
	for _, phy := range nodes[1:] {
		dn, err := NewDataNode(fmt.Sprintf("datanode_%d", len(dataNodes)), phy, cfg.DataNode)
		if err != nil {
			return nil, err
		}
		dataNodes = append(dataNodes, dn)
	}
	logrus.Infof("cluster: namenode on %s, %d datanodes, replica factor %d",
		nodes[0].Name, len(dataNodes), cfg.Replica)
	return NewHDFS(nameNode, dataNodes, cfg.Replica, rng)
}

// BuildCluster validates cfg, constructs the physical topology it
// describes, and assembles the facade on it.
func BuildCluster(cfg Config, rng *rand.Rand) (*HDFS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nodes := make([]*PhysicalNode, cfg.Nodes)
	for i := range nodes {
		nodes[i] = NewPhysicalNode(fmt.Sprintf("node_%d", i), cfg.rates())
	}
	return NewCluster(nodes, cfg, rng)
}

// NameNode returns the cluster's name node.
func (h *HDFS) NameNode() *NameNode { return h.nameNode }

// DataNodes returns the cluster's data nodes in construction order.
func (h *HDFS) DataNodes() []DataNode { return h.dataNodes }

// Replica returns the replica factor.
func (h *HDFS) Replica() int { return h.replica }

// ReadRequest composes a block read against one data node chosen uniformly
// at random; ordinary reads model a client with no locality awareness.
func (h *HDFS) ReadRequest(clientID int, size float64) (*seda.Request, *sim.Completion) {
	dn := h.dataNodes[h.rng.Intn(len(h.dataNodes))]
	return dn.ReadRequest(clientID, size)
}

// WriteRequest composes a replicated write. If origin hosts a data node,
// that node heads the replica chain; the remaining members are drawn
// uniformly without repeats. The returned completion fires only once every
// chain member has acknowledged.
func (h *HDFS) WriteRequest(origin *PhysicalNode, clientID int, size float64) (*seda.Request, *sim.Completion) {
	chain := h.placeReplicas(origin)
	return chainWrite(clientID, size, chain)
}

// ShortCircuitRequest composes a same-node read on the data node
// co-located with origin. It fails with ErrNoLocalDataNode if origin hosts
// no data node.
func (h *HDFS) ShortCircuitRequest(origin *PhysicalNode, clientID int, size float64) (*seda.Request, *sim.Completion, error) {
	local := h.localDataNode(origin)
	if local == nil {
		name := "<nil>"
		if origin != nil {
			name = origin.Name
		}
		return nil, nil, fmt.Errorf("short-circuit read from %s: %w", name, ErrNoLocalDataNode)
	}
	req, done := local.ShortCircuitRequest(clientID, size)
	return req, done, nil
}

// LookupRequest delegates a metadata operation to the name node.
func (h *HDFS) LookupRequest(clientID int, lockTime float64) (*seda.Request, *sim.Completion) {
	return h.nameNode.LookupRequest(clientID, lockTime)
}

// placeReplicas returns the ordered replica chain: the data node
// co-located with origin first, if any, then uniform draws from the full
// set, discarding repeats, until the chain has replica members. The chain
// order fixes the replication pipeline order; it carries no priority.
func (h *HDFS) placeReplicas(origin *PhysicalNode) []DataNode {
	if h.replica > len(h.dataNodes) {
		panic(fmt.Sprintf("replica factor %d exceeds datanode count %d", h.replica, len(h.dataNodes)))
	}
	chain := make([]DataNode, 0, h.replica)
	if local := h.localDataNode(origin); local != nil {
		chain = append(chain, local)
	}
	for len(chain) < h.replica {
		candidate := h.dataNodes[h.rng.Intn(len(h.dataNodes))]
		if containsDataNode(chain, candidate) {
			continue
		}
		chain = append(chain, candidate)
	}
	return chain
}

func (h *HDFS) localDataNode(origin *PhysicalNode) DataNode {
	if origin == nil {
		return nil
	}
	for _, dn := range h.dataNodes {
		if dn.Node() == origin {
			return dn
		}
	}
	return nil
}

func containsDataNode(list []DataNode, dn DataNode) bool {
	for _, member := range list {
		if member == dn {
			return true
		}
	}
	return false
}
