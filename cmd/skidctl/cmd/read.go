package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/sdo"
)

func init() {
	rootCmd.AddCommand(readCmd)
}

var readCmd = &cobra.Command{
	Use:   "read <node> <index> <sub>",
	Short: "read one dictionary entry over expedited SDO",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, index, sub, err := parseEntry(args)
		if err != nil {
			return err
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

		read := sdo.Read{
			Node:        node,
			ObjectIndex: canopen.NewObjectIndex(index, sub),
			Timeout:     cfg.AckTimeout.Std(),
		}

		value, err := read.Uint32(bus)
		if err != nil {
			return err
		}

		fmt.Printf("%04X:%02X = %d (%#x)\n", index, sub, value, value)
		return nil
	},
}

// parseEntry decodes the node, index and sub index arguments, hex or
// decimal.
func parseEntry(args []string) (node uint8, index uint16, sub uint8, err error) {
	n, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil || n == 0 || n > uint64(canopen.MaxNodeID) {
		return 0, 0, 0, fmt.Errorf("bad node id %q", args[0])
	}

	idx, err := strconv.ParseUint(args[1], 0, 16)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad object index %q", args[1])
	}

	s, err := strconv.ParseUint(args[2], 0, 8)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad sub index %q", args[2])
	}

	return uint8(n), uint16(idx), uint8(s), nil
}
