package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(writeCmd)
}

var writeCmd = &cobra.Command{
	Use:   "write <node> <index> <sub> <value> [size]",
	Short: "write one dictionary entry over expedited SDO",
	Args:  cobra.RangeArgs(4, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, index, sub, err := parseEntry(args)
		if err != nil {
			return err
		}

		value, err := strconv.ParseUint(args[3], 0, 32)
		if err != nil {
			return fmt.Errorf("bad value %q", args[3])
		}

		size := 4
		if len(args) == 5 {
			size, err = strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("bad size %q", args[4])
			}
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

		return configurator(cfg, bus).Write(node, index, sub, uint32(value), size)
	},
}
