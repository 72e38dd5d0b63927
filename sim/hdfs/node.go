// Package hdfs models the request-handling behavior of a replicated,
// staged HDFS-style storage cluster: how metadata lookups, block reads,
// and replicated block writes are composed into staged resource demands,
// how replicas are placed, and how completion dependencies across a
// replication pipeline are assembled.
package hdfs

import "github.com/hdfs-sim/hdfs-sim/sim/seda"

// PhysicalNode exposes the three shared resource handles consumed by every
// request targeting it. Immutable after construction; shared by every
// component running on the node.
type PhysicalNode struct {
	Name string
	CPU  *seda.Resource
	IO   *seda.Resource
	Net  *seda.Resource
}

// ResourceRates configures per-node service rates: CPU in microseconds of
// work per tick, IO and network in bytes per tick.
type ResourceRates struct {
	CPURate float64 `yaml:"cpu_rate"`
	IORate  float64 `yaml:"io_rate"`
	NetRate float64 `yaml:"net_rate"`
}

// DefaultResourceRates models a node with one vCPU, ~100 MB/s of disk
// bandwidth, and ~120 MB/s of network bandwidth.
func DefaultResourceRates() ResourceRates {
	return ResourceRates{CPURate: 1.0, IORate: 100.0, NetRate: 120.0}
}

// NewPhysicalNode creates a physical node with fresh CPU, IO, and network
// resources at the given rates. Each resource admits one holder at a time;
// additional demands queue FIFO.
func NewPhysicalNode(name string, rates ResourceRates) *PhysicalNode {
	return &PhysicalNode{
		Name: name,
		CPU:  seda.NewResource(name+"_cpu", 1, rates.CPURate),
		IO:   seda.NewResource(name+"_io", 1, rates.IORate),
		Net:  seda.NewResource(name+"_net", 1, rates.NetRate),
	}
}
