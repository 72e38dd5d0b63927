package hdfs

import (
	"fmt"

	"github.com/hdfs-sim/hdfs-sim/sim/seda"
)

// StageConfig selects a stage scheduling variant. An empty type means
// on-demand (unlimited concurrency), the default.
type StageConfig struct {
	Type    string `yaml:"type,omitempty"`    // "ondemand" (default) or "workers"
	Workers int    `yaml:"workers,omitempty"` // handler count for the workers variant
}

func (c *StageConfig) build(name string) (seda.Stage, error) {
	switch c.Type {
	case "", "ondemand":
		return seda.NewOnDemandStage(name), nil
	case "workers":
		if c.Workers < 1 {
			return nil, fmt.Errorf("stage %s: workers variant requires workers >= 1, got %d", name, c.Workers)
		}
		return seda.NewWorkerStage(name, c.Workers), nil
	default:
		return nil, fmt.Errorf("stage %s: unsupported stage type %q", name, c.Type)
	}
}

// DataNodeConfig selects the data-node implementation and its stages.
type DataNodeConfig struct {
	Type     string      `yaml:"type,omitempty"` // "simple" (default)
	Transfer StageConfig `yaml:"transfer_stage,omitempty"`
	Ack      StageConfig `yaml:"ack_stage,omitempty"`
}

// NameNodeConfig configures the name node's RPC processing stage.
type NameNodeConfig struct {
	RPC StageConfig `yaml:"rpc_stage,omitempty"`
}

// Config describes a cluster: topology size, replica factor, per-node
// resource rates, and node implementation selection. The first physical
// node hosts the name node; every remaining node hosts one data node.
type Config struct {
	Nodes     int            `yaml:"nodes"`
	Replica   int            `yaml:"replica"`
	Resources *ResourceRates `yaml:"resources,omitempty"`
	DataNode  DataNodeConfig `yaml:"datanode,omitempty"`
	NameNode  NameNodeConfig `yaml:"namenode,omitempty"`
}

// Validate checks construction preconditions. Violations are configuration
// errors: fatal at setup, never recovered internally.
func (c *Config) Validate() error {
	if c.Nodes < 2 {
		return fmt.Errorf("cluster: at least 2 physical nodes required (1 namenode + datanodes), got %d", c.Nodes)
	}
	if c.Replica < 1 {
		return fmt.Errorf("cluster: replica factor must be >= 1, got %d", c.Replica)
	}
	if c.Replica > c.Nodes-1 {
		return fmt.Errorf("cluster: replica factor %d exceeds datanode count %d", c.Replica, c.Nodes-1)
	}
	if c.Resources != nil {
		if c.Resources.CPURate <= 0 || c.Resources.IORate <= 0 || c.Resources.NetRate <= 0 {
			return fmt.Errorf("cluster: resource rates must be positive, got cpu=%v io=%v net=%v",
				c.Resources.CPURate, c.Resources.IORate, c.Resources.NetRate)
		}
	}
	return nil
}

func (c *Config) rates() ResourceRates {
	if c.Resources != nil {
		return *c.Resources
	}
	return DefaultResourceRates()
}
