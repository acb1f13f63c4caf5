package sdo_test

import (
	"strings"
	"testing"
	"time"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/sdo"
	"github.com/skidworks/canopen/sim"
	"github.com/skidworks/canopen/transport"
)

func setupNode(id uint8) (*sim.Node, canopen.Bus) {
	hub := transport.NewVirtualBus()
	node := sim.NewNode(id, hub.Open())
	return node, hub.Open()
}

func TestConfiguratorWrite(t *testing.T) {
	node, bus := setupNode(0x23)
	defer node.Detach()
	defer bus.Disconnect()

	conf := &sdo.Configurator{Bus: bus, Timeout: time.Second}
	if err := conf.Write(0x23, 0x1800, 0x05, 100, 2); err != nil {
		t.Log("Write failed", err)
		t.FailNow()
	}

	value, ok := node.Object(canopen.NewObjectIndex(0x1800, 0x05))
	if !ok || value != 100 {
		t.Log("Write did not land", value, ok)
		t.FailNow()
	}
}

func TestConfiguratorLegacyToleratesSilence(t *testing.T) {
	node, bus := setupNode(0x23)
	defer node.Detach()
	defer bus.Disconnect()

	node.Silent = true

	conf := &sdo.Configurator{Bus: bus, Timeout: 20 * time.Millisecond}
	if err := conf.Write(0x23, 0x1800, 0x05, 100, 2); err != nil {
		t.Log("Silence surfaced as an error", err)
		t.FailNow()
	}
}

func TestConfiguratorStrictTimesOut(t *testing.T) {
	node, bus := setupNode(0x23)
	defer node.Detach()
	defer bus.Disconnect()

	node.Silent = true

	conf := &sdo.Configurator{
		Bus:      bus,
		Timeout:  20 * time.Millisecond,
		Strict:   true,
		Attempts: 2,
	}

	err := conf.Write(0x23, 0x1800, 0x05, 100, 2)
	if err == nil {
		t.Log("Silence went unnoticed under the strict policy")
		t.FailNow()
	}
}

func TestConfiguratorStrictSurfacesAborts(t *testing.T) {
	node, bus := setupNode(0x23)
	defer node.Detach()
	defer bus.Disconnect()

	node.AbortOn(canopen.NewObjectIndex(0x1800, 0x05), sdo.SDO_ERR_ACCESS_RO)

	conf := &sdo.Configurator{Bus: bus, Timeout: time.Second, Strict: true}

	err := conf.Write(0x23, 0x1800, 0x05, 100, 2)
	if err == nil {
		t.Log("Abort went unnoticed")
		t.FailNow()
	}

	if !strings.Contains(err.Error(), "READ-ONLY") {
		t.Log("Abort text lost", err)
		t.FailNow()
	}
}

func TestConfiguratorRejectsBadSizesBeforeSending(t *testing.T) {
	node, bus := setupNode(0x23)
	defer node.Detach()
	defer bus.Disconnect()

	conf := &sdo.Configurator{Bus: bus, Timeout: time.Second}

	err := conf.Write(0x23, 0x1800, 0x05, 100, 5)
	if err == nil {
		t.Log("Bad size accepted")
		t.FailNow()
	}

	if _, ok := err.(sdo.WriteSizeError); !ok {
		t.Log("Unexpected error", err)
		t.FailNow()
	}

	// nothing must have reached the node
	time.Sleep(50 * time.Millisecond)
	if len(node.Writes()) != 0 {
		t.Log("Frame reached the node", node.Writes())
		t.FailNow()
	}
}
