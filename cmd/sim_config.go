package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hdfs-sim/hdfs-sim/sim/hdfs"
	"github.com/hdfs-sim/hdfs-sim/sim/workload"
)

// SimConfig is the top-level YAML simulation configuration: a cluster
// section plus the client workload sections. Seed and horizon can be
// overridden from the command line.
type SimConfig struct {
	Seed    int64                 `yaml:"seed,omitempty"`
	Horizon int64                 `yaml:"horizon,omitempty"`
	Cluster hdfs.Config           `yaml:"cluster"`
	Clients []workload.ClientSpec `yaml:"clients"`
}

// LoadSimConfig reads and validates a simulation config file. Parsing is
// strict: unrecognized keys (typos) are rejected.
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading simulation config: %w", err)
	}
	return ParseSimConfig(data)
}

// ParseSimConfig parses and validates raw YAML config bytes.
func ParseSimConfig(data []byte) (*SimConfig, error) {
	var cfg SimConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing simulation config: %w", err)
	}
	if err := cfg.Cluster.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Clients) == 0 {
		return nil, fmt.Errorf("simulation config: at least one client section required")
	}
	if err := workload.ValidateSpecs(cfg.Clients); err != nil {
		return nil, err
	}
	return &cfg, nil
}
