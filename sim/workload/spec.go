// Package workload implements closed-loop clients that drive the cluster
// facade and report latency statistics every monitor interval.
package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMonitorInterval is the statistics reporting period, in ticks,
// used when a client spec does not set monitor_interval.
const DefaultMonitorInterval = 10

// ClientSpec defines one closed-loop client workload. Required fields are
// pointers so a missing field is distinct from an explicit zero; a zero
// lookup_time, read_size, or write_size disables that phase, and a zero
// think_time skips thinking entirely.
type ClientSpec struct {
	ClientID        *int     `yaml:"client_id"`
	ClientName      *string  `yaml:"client_name"`
	NumInstances    *int     `yaml:"num_instances"`
	LookupTime      *float64 `yaml:"lookup_time"`
	ReadSize        *float64 `yaml:"read_size"`
	WriteSize       *float64 `yaml:"write_size"`
	ThinkTime       *int64   `yaml:"think_time"`
	MonitorInterval int64    `yaml:"monitor_interval,omitempty"`
}

// Validate checks that every required field is present and sane; section
// names the spec in error messages.
func (s *ClientSpec) Validate(section string) error {
	missing := ""
	switch {
	case s.ClientID == nil:
		missing = "client_id"
	case s.ClientName == nil:
		missing = "client_name"
	case s.NumInstances == nil:
		missing = "num_instances"
	case s.LookupTime == nil:
		missing = "lookup_time"
	case s.ReadSize == nil:
		missing = "read_size"
	case s.WriteSize == nil:
		missing = "write_size"
	case s.ThinkTime == nil:
		missing = "think_time"
	}
	if missing != "" {
		return fmt.Errorf("client %s configuration not complete, missing option: %s", section, missing)
	}
	if *s.NumInstances < 1 {
		return fmt.Errorf("client %s: num_instances must be >= 1, got %d", section, *s.NumInstances)
	}
	if *s.LookupTime < 0 || *s.ReadSize < 0 || *s.WriteSize < 0 || *s.ThinkTime < 0 {
		return fmt.Errorf("client %s: times and sizes must be non-negative", section)
	}
	if s.MonitorInterval < 0 {
		return fmt.Errorf("client %s: monitor_interval must be non-negative, got %d", section, s.MonitorInterval)
	}
	return nil
}

// monitorInterval returns the configured interval with the default applied.
func (s *ClientSpec) monitorInterval() int64 {
	if s.MonitorInterval > 0 {
		return s.MonitorInterval
	}
	return DefaultMonitorInterval
}

// ValidateSpecs validates every spec in order, naming sections by client
// name when present and by index otherwise.
func ValidateSpecs(specs []ClientSpec) error {
	for i := range specs {
		section := fmt.Sprintf("clients[%d]", i)
		if specs[i].ClientName != nil {
			section = *specs[i].ClientName
		}
		if err := specs[i].Validate(section); err != nil {
			return err
		}
	}
	return nil
}

// ParseClientSpecs parses a YAML list of client specs with strict parsing:
// unrecognized keys (typos) are rejected.
func ParseClientSpecs(data []byte) ([]ClientSpec, error) {
	var specs []ClientSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&specs); err != nil {
		return nil, fmt.Errorf("parsing client specs: %w", err)
	}
	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// LoadClientSpecs reads and parses a YAML client spec file.
func LoadClientSpecs(path string) ([]ClientSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading client specs: %w", err)
	}
	return ParseClientSpecs(data)
}
