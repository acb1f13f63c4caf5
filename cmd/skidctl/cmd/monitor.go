package cmd

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/skidworks/canopen"
)

func init() {
	monitorCmd.Flags().Bool(flagSimulate, false, "attach emulated nodes to the virtual bus")
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "print every frame on the bus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		bus, err := openBus(cfg)
		if err != nil {
			return err
		}
		defer bus.Disconnect()

		if simulate, _ := cmd.Flags().GetBool(flagSimulate); simulate {
			if err := attachSimulatedFleet(ctx, cfg); err != nil {
				return err
			}
		}

		var count uint64
		cancel := bus.Subscribe(canopen.HandlerFunc(func(frm canopen.Frame) {
			fmt.Printf("%8d  %#03x  [%d]  % X\n", atomic.AddUint64(&count, 1), frm.CobID, len(frm.Data), frm.Data)
		}))
		defer cancel()

		<-ctx.Done()
		return nil
	},
}
