package mockapi

import (
	"fmt"
	"sort"
	"time"
)

// Conditions describe the simulated network.
type Conditions struct {
	Online     bool          `json:"online" yaml:"online"`
	ErrorRate  float64       `json:"errorRate" yaml:"error_rate"`
	MinLatency time.Duration `json:"minLatency" yaml:"min_latency"`
	MaxLatency time.Duration `json:"maxLatency" yaml:"max_latency"`
}

// Named presets.
const (
	PresetDefault = "default"
	PresetFast    = "fast"
	PresetSlow    = "slow"
	PresetOffline = "offline"
)

// DefaultConditions is the reset state: online, 2% failures, 200-1200ms.
func DefaultConditions() Conditions {
	return Conditions{
		Online:     true,
		ErrorRate:  0.02,
		MinLatency: 200 * time.Millisecond,
		MaxLatency: 1200 * time.Millisecond,
	}
}

var presets = map[string]func() Conditions{
	PresetDefault: DefaultConditions,
	PresetFast: func() Conditions {
		return Conditions{Online: true, ErrorRate: 0.01, MinLatency: 100 * time.Millisecond, MaxLatency: 300 * time.Millisecond}
	},
	PresetSlow: func() Conditions {
		return Conditions{Online: true, ErrorRate: 0.1, MinLatency: 2 * time.Second, MaxLatency: 5 * time.Second}
	},
	PresetOffline: func() Conditions {
		c := DefaultConditions()
		c.Online = false
		return c
	},
}

// Preset resolves a named preset. "reset" is an alias for default.
func Preset(name string) (Conditions, error) {
	if name == "reset" || name == "" {
		name = PresetDefault
	}
	build, ok := presets[name]
	if !ok {
		return Conditions{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return build(), nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate rejects impossible conditions.
func (c Conditions) Validate() error {
	if c.ErrorRate < 0 || c.ErrorRate > 1 {
		return fmt.Errorf("mockapi: error rate %v outside [0,1]", c.ErrorRate)
	}
	if c.MinLatency < 0 || c.MaxLatency < c.MinLatency {
		return fmt.Errorf("mockapi: invalid latency window %s-%s", c.MinLatency, c.MaxLatency)
	}
	return nil
}
