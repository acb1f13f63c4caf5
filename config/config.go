// Package config loads the per-deployment YAML file naming the bus
// interface, the fleet and the address map. Bus addresses are data, not
// code: a new skid is a new file, not a new build.
package config

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/actuator"
	"github.com/skidworks/canopen/commission"
	"github.com/skidworks/canopen/pdo"
	"github.com/skidworks/canopen/telemetry"
)

// Defaults for a file that names only its fleet and routes.
const (
	DefaultInterface = "socketcan"
	DefaultChannel   = "can0"
)

// Duration wraps time.Duration for yaml.v2, which has no decoder for
// it. Values use the time.ParseDuration forms, "500ms" or "1s".
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: bad duration %q", raw)
	}

	*d = Duration(parsed)
	return nil
}

// Std returns the duration as its standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Route binds one COB-ID to the node and decoder that own it.
type Route struct {
	CobID uint16 `yaml:"cob_id"`
	Node  uint8  `yaml:"node"`
	Kind  string `yaml:"kind"`
}

// Output is a cyclically refreshed command frame.
type Output struct {
	CobID    uint16   `yaml:"cob_id"`
	Interval Duration `yaml:"interval"`
}

// Config describes one deployment of the skid.
type Config struct {
	Interface     string    `yaml:"interface"`
	Channel       string    `yaml:"channel"`
	Resolution    uint      `yaml:"resolution"`
	FlowFullScale float64   `yaml:"flow_full_scale"`
	AckTimeout    Duration  `yaml:"ack_timeout"`
	Strict        bool      `yaml:"strict"`
	Nodes         []uint8   `yaml:"nodes,flow"`
	Messages      int       `yaml:"messages"`
	QueueSize     int       `yaml:"queue_size"`
	PressureSpans []float64 `yaml:"pressure_spans,flow"`
	Routing       []Route   `yaml:"routing"`
	Pump          Output    `yaml:"pump"`
	Valves        Output    `yaml:"valves"`
}

// Load reads and parses a deployment file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(raw)
}

// Parse decodes a deployment, fills in the defaults and validates the
// result.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Interface == "" {
		c.Interface = DefaultInterface
	}
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	if c.Resolution == 0 {
		c.Resolution = telemetry.DefaultResolution
	}
	if c.FlowFullScale == 0 {
		c.FlowFullScale = telemetry.DefaultFlowFullScale
	}
	if c.AckTimeout == 0 {
		c.AckTimeout = Duration(canopen.DefaultTimeout)
	}
	if c.Messages == 0 {
		c.Messages = commission.DefaultMessages
	}
	if c.QueueSize == 0 {
		c.QueueSize = telemetry.DefaultQueueSize
	}
	if c.Pump.CobID != 0 && c.Pump.Interval == 0 {
		c.Pump.Interval = Duration(actuator.DefaultPumpInterval)
	}
	if c.Valves.CobID != 0 && c.Valves.Interval == 0 {
		c.Valves.Interval = Duration(actuator.DefaultValveInterval)
	}
}

// Validate rejects files that cannot describe a working deployment.
func (c *Config) Validate() error {
	if c.Resolution < 1 || c.Resolution > 16 {
		return fmt.Errorf("config: resolution %d outside 1-16", c.Resolution)
	}

	if c.AckTimeout <= 0 {
		return fmt.Errorf("config: ack timeout must be positive")
	}

	if c.QueueSize < 1 {
		return fmt.Errorf("config: queue size %d must be positive", c.QueueSize)
	}

	if c.Messages < 1 || c.Messages > pdo.MaxMessages {
		return fmt.Errorf("config: %d messages outside 1-%d", c.Messages, pdo.MaxMessages)
	}

	for _, node := range c.Nodes {
		if node == 0 || node > canopen.MaxNodeID {
			return fmt.Errorf("config: node id %d outside 1-%d", node, canopen.MaxNodeID)
		}
	}

	for _, route := range c.Routing {
		if !slices.Contains([]string{
			"voltage",
			"temperature",
			"current",
		}, route.Kind) {
			return fmt.Errorf("config: route %#03x has unknown kind %q", route.CobID, route.Kind)
		}

		if route.Node == 0 || route.Node > canopen.MaxNodeID {
			return fmt.Errorf("config: route %#03x node id %d outside 1-%d", route.CobID, route.Node, canopen.MaxNodeID)
		}
	}

	if c.Pump.CobID != 0 && c.Pump.Interval <= 0 {
		return fmt.Errorf("config: pump interval must be positive")
	}

	if c.Valves.CobID != 0 && c.Valves.Interval <= 0 {
		return fmt.Errorf("config: valve interval must be positive")
	}

	return nil
}

// Plan returns the commissioning plan for the configured fleet.
func (c *Config) Plan() commission.Plan {
	return commission.Plan{
		Nodes:    c.Nodes,
		Messages: c.Messages,
	}
}

// Table returns the routing table for the telemetry router.
func (c *Config) Table() telemetry.RoutingTable {
	routes := make([]telemetry.Route, 0, len(c.Routing))
	for _, r := range c.Routing {
		kind, err := telemetry.ParseKind(r.Kind)
		if err != nil {
			// Validate has already vetted every kind name.
			continue
		}

		routes = append(routes, telemetry.Route{CobID: r.CobID, Node: r.Node, Kind: kind})
	}

	return telemetry.NewRoutingTable(routes)
}
