package hdfs

import (
	"fmt"

	"github.com/hdfs-sim/hdfs-sim/sim"
	"github.com/hdfs-sim/hdfs-sim/sim/seda"
)

const (
	// dnPerReqCPUTime is the fixed CPU cost charged per transfer request,
	// in microseconds of CPU work.
	dnPerReqCPUTime = 50.0
	// ackSizeRatio is the acknowledgment traffic per written byte: a
	// 48-byte packet header per 64 KiB of data.
	ackSizeRatio = 48.0 / 64e3
	// ackCPURatio is the acknowledgment CPU cost per written byte: 50 us of
	// CPU per 64 KiB of data.
	ackCPURatio = 50.0 / 64e3
)

// DataNode is the capability contract of a data node: composing read,
// replicated-write, and short-circuit-read request trees against its
// physical node's resources. Every composition returns the tree's head
// request, unsubmitted, plus the completion the caller should wait on.
type DataNode interface {
	// ReadRequest composes a block read of size bytes through the transfer
	// stage. The completion is the transfer request's own.
	ReadRequest(clientID int, size float64) (*seda.Request, *sim.Completion)
	// WriteRequest composes a replicated write: a local write chained
	// through every node in downstream, in order. The completion fires only
	// once every node in the chain has acknowledged.
	WriteRequest(clientID int, size float64, downstream []DataNode) (*seda.Request, *sim.Completion)
	// ShortCircuitRequest composes a same-node read that bypasses the
	// network and the per-request CPU cost entirely.
	ShortCircuitRequest(clientID int, size float64) (*seda.Request, *sim.Completion)
	// WritePair builds this node's local transfer and acknowledgment
	// requests, unlinked; callers assemble replication chains from them.
	WritePair(clientID int, size float64) (transfer, ack *seda.Request)
	// Node returns the physical node this data node runs on.
	Node() *PhysicalNode
}

// NewDataNode constructs the data-node variant selected by cfg.
// An unsupported type is a configuration error.
func NewDataNode(name string, phy *PhysicalNode, cfg DataNodeConfig) (DataNode, error) {
	switch cfg.Type {
	case "", "simple":
		return newSimpleDataNode(name, phy, cfg)
	default:
		return nil, fmt.Errorf("unsupported datanode type: %q", cfg.Type)
	}
}

// SimpleDataNode exhibits default HDFS data-node behavior, with a transfer
// ("xceive") stage performing block I/O and a packet-ack stage
// acknowledging written data.
type SimpleDataNode struct {
	name     string
	phy      *PhysicalNode
	transfer seda.Stage
	ack      seda.Stage
}

func newSimpleDataNode(name string, phy *PhysicalNode, cfg DataNodeConfig) (*SimpleDataNode, error) {
	transfer, err := cfg.Transfer.build(name + "_xceive")
	if err != nil {
		return nil, err
	}
	ack, err := cfg.Ack.build(name + "_packet_ack")
	if err != nil {
		return nil, err
	}
	return &SimpleDataNode{name: name, phy: phy, transfer: transfer, ack: ack}, nil
}

// Name returns the data node's name.
func (d *SimpleDataNode) Name() string { return d.name }

// Node returns the physical node this data node runs on.
func (d *SimpleDataNode) Node() *PhysicalNode { return d.phy }

// TransferStage returns the stage performing block I/O.
func (d *SimpleDataNode) TransferStage() seda.Stage { return d.transfer }

// AckStage returns the stage acknowledging written data packets.
func (d *SimpleDataNode) AckStage() seda.Stage { return d.ack }

// ReadRequest composes a block read: size bytes of disk and network plus
// the fixed per-request CPU cost.
func (d *SimpleDataNode) ReadRequest(clientID int, size float64) (*seda.Request, *sim.Completion) {
	req := seda.NewRequest(d.transfer, clientID,
		seda.Demand{Resource: d.phy.IO, Amount: size},
		seda.Demand{Resource: d.phy.Net, Amount: size},
		seda.Demand{Resource: d.phy.CPU, Amount: dnPerReqCPUTime},
	)
	return req, req.Done()
}

// ShortCircuitRequest composes a same-node read: disk cost only, network
// and per-request CPU stay zero regardless of size.
func (d *SimpleDataNode) ShortCircuitRequest(clientID int, size float64) (*seda.Request, *sim.Completion) {
	req := seda.NewRequest(d.transfer, clientID,
		seda.Demand{Resource: d.phy.IO, Amount: size},
		seda.Demand{Resource: d.phy.Net, Amount: 0},
		seda.Demand{Resource: d.phy.CPU, Amount: 0},
	)
	return req, req.Done()
}

// WritePair builds the local transfer and acknowledgment requests for a
// write of size bytes. The pair is returned unlinked.
func (d *SimpleDataNode) WritePair(clientID int, size float64) (*seda.Request, *seda.Request) {
	transfer := seda.NewRequest(d.transfer, clientID,
		seda.Demand{Resource: d.phy.IO, Amount: size},
		seda.Demand{Resource: d.phy.Net, Amount: size},
		seda.Demand{Resource: d.phy.CPU, Amount: dnPerReqCPUTime},
	)
	ack := seda.NewRequest(d.ack, clientID,
		seda.Demand{Resource: d.phy.Net, Amount: size * ackSizeRatio},
		seda.Demand{Resource: d.phy.CPU, Amount: size * ackCPURatio},
	)
	return transfer, ack
}

// WriteRequest composes a replicated write with this node at the head of
// the chain.
func (d *SimpleDataNode) WriteRequest(clientID int, size float64, downstream []DataNode) (*seda.Request, *sim.Completion) {
	chain := make([]DataNode, 0, 1+len(downstream))
	chain = append(chain, d)
	chain = append(chain, downstream...)
	return chainWrite(clientID, size, chain)
}

// chainWrite assembles a replicated write over an explicit ordered chain
// with a single backward fold. Real HDFS pipelines individual packets; this
// model collapses a write into one transfer request and one acknowledgment
// per node.
//
// Per node: the transfer carries its acknowledgment downstream (both are
// submitted at the same instant), transfers pipeline node-to-node, and each
// acknowledgment is blocked on its own transfer's completion and on its
// downstream neighbor's acknowledgment. A node never acknowledges data it
// has not finished writing, and the head acknowledgment fires only after
// every transfer and acknowledgment in the chain has completed, while
// transfer work proceeds pipeline-style. The chain must be non-empty.
func chainWrite(clientID int, size float64, chain []DataNode) (*seda.Request, *sim.Completion) {
	var nextTransfer, nextAck *seda.Request
	for i := len(chain) - 1; i >= 0; i-- {
		transfer, ack := chain[i].WritePair(clientID, size)
		transfer.AddDownstream(ack)
		ack.AddBlocking(transfer.Done())
		if nextTransfer != nil {
			transfer.AddDownstream(nextTransfer)
			ack.AddBlocking(nextAck.Done())
		}
		nextTransfer, nextAck = transfer, ack
	}
	return nextTransfer, nextAck.Done()
}
