package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skidworks/canopen"
)

func init() {
	rootCmd.AddCommand(nmtCmd)
}

var nmtCmd = &cobra.Command{
	Use:   "nmt <start|stop|preop|reset|resetcomm> <node...>",
	Short: "issue module control commands, node 0 addresses the whole bus",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes := make([]uint8, 0, len(args)-1)
		for _, arg := range args[1:] {
			id, err := strconv.ParseUint(arg, 0, 8)
			if err != nil || id > uint64(canopen.MaxNodeID) {
				return fmt.Errorf("bad node id %q", arg)
			}
			nodes = append(nodes, uint8(id))
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		bus, err := openBus(cfg)
		if err != nil {
			return err
		}
		defer bus.Disconnect()

		nmt := &canopen.NMT{Bus: bus}
		switch args[0] {
		case "start":
			nmt.Start(nodes...)
		case "stop":
			nmt.Stop(nodes...)
		case "preop":
			nmt.PreOperational(nodes...)
		case "reset":
			nmt.ResetNode(nodes...)
		case "resetcomm":
			nmt.ResetCommunication(nodes...)
		default:
			return fmt.Errorf("unknown command %q", args[0])
		}

		return nil
	},
}
