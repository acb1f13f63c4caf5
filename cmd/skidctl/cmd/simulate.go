package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/skidworks/canopen/config"
	"github.com/skidworks/canopen/sim"
	"github.com/skidworks/canopen/transport"
)

const flagSimulate = "simulate"

// attachSimulatedFleet brings up one emulated node per fleet member on
// the shared hub behind the configured virtual channel. The nodes start
// operational and emit until ctx is done.
func attachSimulatedFleet(ctx context.Context, cfg *config.Config) error {
	if cfg.Interface != "virtual" {
		return fmt.Errorf("--simulate needs the virtual interface, not %q", cfg.Interface)
	}

	if len(cfg.Nodes) == 0 {
		return fmt.Errorf("--simulate needs nodes in the deployment file")
	}

	for _, id := range cfg.Nodes {
		node := sim.NewNode(id, transport.Hub(cfg.Channel).Open())
		node.SetState(sim.Operational)
		go node.Run(ctx)
	}

	log.Infof("[SIM] %d nodes attached to virtual channel %q", len(cfg.Nodes), cfg.Channel)
	return nil
}
