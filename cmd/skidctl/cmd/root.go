package cmd

import (
	"context"
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/config"
	"github.com/skidworks/canopen/sdo"
	"github.com/skidworks/canopen/transport"
)

var rootCmd = &cobra.Command{
	Use:          "skidctl",
	Short:        "dosing skid bus tool",
	Long:         `skidctl commissions, monitors and drives the CANopen IO modules of a dosing skid.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug, _ := cmd.Root().PersistentFlags().GetBool(flagDebug); debug {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

const (
	flagConfig    = "config"
	flagInterface = "interface"
	flagChannel   = "channel"
	flagDebug     = "debug"
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP(flagConfig, "c", "skid.yaml", "deployment file")
	pf.StringP(flagInterface, "i", "", "bus interface, overrides the deployment file")
	pf.StringP(flagChannel, "n", "", "bus channel, overrides the deployment file")
	pf.BoolP(flagDebug, "d", false, "debug logging")
}

// loadConfig reads the deployment file and folds the bus flags in. A
// missing file is only an error when the path was given explicitly.
func loadConfig() (*config.Config, error) {
	path, err := rootCmd.PersistentFlags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) && !rootCmd.PersistentFlags().Changed(flagConfig) {
		log.Warnf("no %s, using built-in defaults", path)
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}

	if name, _ := rootCmd.PersistentFlags().GetString(flagInterface); name != "" {
		cfg.Interface = name
	}
	if channel, _ := rootCmd.PersistentFlags().GetString(flagChannel); channel != "" {
		cfg.Channel = channel
	}

	return cfg, nil
}

func openBus(cfg *config.Config) (canopen.Bus, error) {
	return transport.Open(cfg.Interface, cfg.Channel)
}

func configurator(cfg *config.Config, bus canopen.Bus) *sdo.Configurator {
	return &sdo.Configurator{
		Bus:     bus,
		Timeout: cfg.AckTimeout.Std(),
		Strict:  cfg.Strict,
	}
}
