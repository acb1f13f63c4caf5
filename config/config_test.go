package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skidworks/canopen/telemetry"
)

const deployment = `
interface: virtual
channel: skid
resolution: 12
flow_full_scale: 33.6
ack_timeout: 250ms
strict: true
nodes: [1, 2, 0x23]
messages: 2
queue_size: 40
pressure_spans: [30, 60, 60]
routing:
  - {cob_id: 0x181, node: 1, kind: voltage}
  - {cob_id: 0x182, node: 2, kind: temperature}
  - {cob_id: 0x1A3, node: 0x23, kind: current}
pump: {cob_id: 0x600, interval: 20ms}
valves: {cob_id: 0x191, interval: 80ms}
`

func TestParseDeployment(t *testing.T) {
	cfg, err := Parse([]byte(deployment))
	if err != nil {
		t.Log("Parse failed", err)
		t.FailNow()
	}

	if cfg.Interface != "virtual" || cfg.Channel != "skid" {
		t.Log("Wrong bus", cfg.Interface, cfg.Channel)
		t.FailNow()
	}

	if cfg.Resolution != 12 || cfg.FlowFullScale != 33.6 {
		t.Log("Wrong telemetry scaling", cfg.Resolution, cfg.FlowFullScale)
		t.FailNow()
	}

	if cfg.AckTimeout.Std() != 250*time.Millisecond || !cfg.Strict {
		t.Log("Wrong SDO settings", cfg.AckTimeout.Std(), cfg.Strict)
		t.FailNow()
	}

	if len(cfg.Nodes) != 3 || cfg.Nodes[2] != 0x23 {
		t.Log("Wrong fleet", cfg.Nodes)
		t.FailNow()
	}

	if cfg.Messages != 2 || cfg.QueueSize != 40 {
		t.Log("Wrong sizes", cfg.Messages, cfg.QueueSize)
		t.FailNow()
	}

	if len(cfg.PressureSpans) != 3 || cfg.PressureSpans[1] != 60 {
		t.Log("Wrong spans", cfg.PressureSpans)
		t.FailNow()
	}

	if len(cfg.Routing) != 3 {
		t.Log("Wrong route count", len(cfg.Routing))
		t.FailNow()
	}

	last := cfg.Routing[2]
	if last.CobID != 0x1A3 || last.Node != 0x23 || last.Kind != "current" {
		t.Log("Wrong route", last)
		t.FailNow()
	}

	if cfg.Pump.CobID != 0x600 || cfg.Pump.Interval.Std() != 20*time.Millisecond {
		t.Log("Wrong pump output", cfg.Pump)
		t.FailNow()
	}

	if cfg.Valves.CobID != 0x191 || cfg.Valves.Interval.Std() != 80*time.Millisecond {
		t.Log("Wrong valve output", cfg.Valves)
		t.FailNow()
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("nodes: [1]\npump: {cob_id: 0x600}"))
	if err != nil {
		t.Log("Parse failed", err)
		t.FailNow()
	}

	if cfg.Interface != DefaultInterface || cfg.Channel != DefaultChannel {
		t.Log("Wrong bus defaults", cfg.Interface, cfg.Channel)
		t.FailNow()
	}

	if cfg.Resolution != telemetry.DefaultResolution {
		t.Log("Wrong resolution default", cfg.Resolution)
		t.FailNow()
	}

	if cfg.FlowFullScale != telemetry.DefaultFlowFullScale {
		t.Log("Wrong flow default", cfg.FlowFullScale)
		t.FailNow()
	}

	if cfg.AckTimeout.Std() != 500*time.Millisecond {
		t.Log("Wrong timeout default", cfg.AckTimeout.Std())
		t.FailNow()
	}

	if cfg.Messages != 4 || cfg.QueueSize != telemetry.DefaultQueueSize {
		t.Log("Wrong size defaults", cfg.Messages, cfg.QueueSize)
		t.FailNow()
	}

	if cfg.Pump.Interval.Std() != 50*time.Millisecond {
		t.Log("Wrong pump interval default", cfg.Pump.Interval.Std())
		t.FailNow()
	}

	// no valve output configured, no interval to default
	if cfg.Valves.CobID != 0 || cfg.Valves.Interval != 0 {
		t.Log("Valve output invented", cfg.Valves)
		t.FailNow()
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := Parse([]byte("nodes: [1]\nrouting:\n  - {cob_id: 0x181, node: 1, kind: pressure}"))
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Log("Unknown kind accepted", err)
		t.FailNow()
	}
}

func TestParseRejectsBadDuration(t *testing.T) {
	_, err := Parse([]byte("nodes: [1]\nack_timeout: soon"))
	if err == nil || !strings.Contains(err.Error(), "bad duration") {
		t.Log("Bad duration accepted", err)
		t.FailNow()
	}
}

func TestParseRejectsBadNodes(t *testing.T) {
	for _, doc := range []string{"nodes: [0]", "nodes: [1]\nrouting:\n  - {cob_id: 0x181, node: 0, kind: voltage}"} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Log("Node id 0 accepted", doc)
			t.FailNow()
		}
	}
}

func TestParseRejectsBadResolution(t *testing.T) {
	_, err := Parse([]byte("nodes: [1]\nresolution: 17"))
	if err == nil || !strings.Contains(err.Error(), "resolution") {
		t.Log("Resolution 17 accepted", err)
		t.FailNow()
	}
}

func TestPlanAndTable(t *testing.T) {
	cfg, err := Parse([]byte(deployment))
	if err != nil {
		t.Log("Parse failed", err)
		t.FailNow()
	}

	plan := cfg.Plan()
	if len(plan.Nodes) != 3 || plan.Messages != 2 {
		t.Log("Wrong plan", plan)
		t.FailNow()
	}

	table := cfg.Table()
	if table.Len() != 3 {
		t.Log("Wrong table size", table.Len())
		t.FailNow()
	}

	route, ok := table.Lookup(0x181)
	if !ok || route.Kind != telemetry.Voltage || route.Node != 1 {
		t.Log("Wrong route", route, ok)
		t.FailNow()
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skid.yaml")
	if err := os.WriteFile(path, []byte(deployment), 0o644); err != nil {
		t.Log("Could not write file", err)
		t.FailNow()
	}

	cfg, err := Load(path)
	if err != nil {
		t.Log("Load failed", err)
		t.FailNow()
	}

	if cfg.Channel != "skid" {
		t.Log("Wrong channel", cfg.Channel)
		t.FailNow()
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Log("Missing file accepted")
		t.FailNow()
	}
}
