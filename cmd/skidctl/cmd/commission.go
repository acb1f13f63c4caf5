package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/commission"
)

const flagStrict = "strict"

func init() {
	commissionCmd.Flags().Bool(flagStrict, false, "fail on missing acknowledgements instead of assuming success")
	rootCmd.AddCommand(commissionCmd)
}

var commissionCmd = &cobra.Command{
	Use:   "commission",
	Short: "restore, configure and persist every node of the fleet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if strict, _ := cmd.Flags().GetBool(flagStrict); strict {
			cfg.Strict = true
		}

		bus, err := openBus(cfg)
		if err != nil {
			return err
		}
		defer bus.Disconnect()

		nmt := &canopen.NMT{Bus: bus}
		seq := &commission.Sequencer{
			Config: configurator(cfg, bus),
			NMT:    nmt,
			Plan:   cfg.Plan(),
		}

		if err := seq.Run(); err != nil {
			return err
		}

		// Reboot into the stored configuration, then go operational
		log.Infof("[COMMISSION] fleet done, restarting %d nodes", len(cfg.Nodes))
		nmt.ResetNode(cfg.Nodes...)
		time.Sleep(time.Second)
		nmt.Start(cfg.Nodes...)

		return nil
	},
}
