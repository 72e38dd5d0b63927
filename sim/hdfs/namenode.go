package hdfs

import (
	"github.com/hdfs-sim/hdfs-sim/sim"
	"github.com/hdfs-sim/hdfs-sim/sim/seda"
)

// NameNode models an HDFS namenode. Only the RPC processing stage and the
// global namespace lock are modeled; RPC reader and responder stages are
// omitted because the namespace lock is the resource of interest. Every
// metadata operation, read or mutating, contends for the same capacity-1
// lock.
type NameNode struct {
	name string
	phy  *PhysicalNode
	rpc  seda.Stage
	lock *seda.Resource
}

// NewNameNode creates a name node on phy with the configured RPC stage and
// a fresh exclusive namespace-lock resource.
func NewNameNode(name string, phy *PhysicalNode, cfg NameNodeConfig) (*NameNode, error) {
	rpc, err := cfg.RPC.build(name + "_rpc")
	if err != nil {
		return nil, err
	}
	// The namespace lock is exclusive: capacity 1, demand measured directly
	// in lock-hold ticks.
	lock := seda.NewResource(name+"_namespace_lock", 1, 1.0)
	return &NameNode{name: name, phy: phy, rpc: rpc, lock: lock}, nil
}

// Name returns the name node's name.
func (n *NameNode) Name() string { return n.name }

// Node returns the physical node the name node runs on.
func (n *NameNode) Node() *PhysicalNode { return n.phy }

// Lock returns the namespace-lock resource.
func (n *NameNode) Lock() *seda.Resource { return n.lock }

// LookupRequest composes a metadata operation holding the namespace lock
// for lockTime ticks.
func (n *NameNode) LookupRequest(clientID int, lockTime float64) (*seda.Request, *sim.Completion) {
	req := seda.NewRequest(n.rpc, clientID,
		seda.Demand{Resource: n.lock, Amount: lockTime},
	)
	return req, req.Done()
}
