package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/actuator"
	"github.com/skidworks/canopen/recorder"
	"github.com/skidworks/canopen/telemetry"
)

const (
	flagRecord    = "record"
	flagPumpSpeed = "pump-speed"
)

func init() {
	runCmd.Flags().Bool(flagSimulate, false, "attach emulated nodes to the virtual bus")
	runCmd.Flags().String(flagRecord, "", "record readings to a CSV file")
	runCmd.Flags().Int(flagPumpSpeed, 0, "pump speed command, 0 leaves the pump off")
	rootCmd.AddCommand(runCmd)
}

// logColumns keeps the historical skid log layout, existing
// spreadsheets read these headers.
var logColumns = []recorder.Column{
	{Key: "pt1401", Header: "PT1401 (psi)", Format: "%.1f"},
	{Key: "pt1402", Header: "PT1402 (psi)", Format: "%.1f"},
	{Key: "pt1403", Header: "PT1403 (psi)", Format: "%.1f"},
	{Key: "t01", Header: "T01 (C)", Format: "%.1f"},
	{Key: "t02", Header: "T02 (C)", Format: "%.1f"},
	{Key: "heater_temp", Header: "Heater (C)", Format: "%.1f"},
	{Key: "pump_on_status", Header: "Pump On"},
	{Key: "commanded_pump_speed", Header: "Pump Cmd"},
	{Key: "pump_feedback", Header: "Pump Feedback (%)", Format: "%.1f"},
	{Key: "flow_rate_feedback", Header: "Flow (kg/h)", Format: "%.2f"},
}

var (
	pressureKeys    = []string{"pt1401", "pt1402", "pt1403"}
	temperatureKeys = []string{"t01", "t02", "heater_temp"}
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "decode telemetry and refresh the outputs until interrupted",
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

		queue := telemetry.NewQueue(cfg.QueueSize)
		router := telemetry.NewRouter(cfg.Table(), queue)
		router.Resolution = cfg.Resolution
		router.FlowFullScale = cfg.FlowFullScale

		cancel := bus.Subscribe(router)
		defer cancel()

		store := telemetry.NewStore(cfg.PressureSpans, 0)
		go store.Run(ctx, queue)

		pumpSpeed, _ := cmd.Flags().GetInt(flagPumpSpeed)
		if cfg.Pump.CobID != 0 || cfg.Valves.CobID != 0 {
			sender := &actuator.Sender{
				Bus:           bus,
				PumpCobID:     cfg.Pump.CobID,
				ValveCobID:    cfg.Valves.CobID,
				PumpInterval:  cfg.Pump.Interval.Std(),
				ValveInterval: cfg.Valves.Interval.Std(),
			}
			sender.SetPump(pumpSpeed > 0, pumpSpeed)
			go sender.Run(ctx)
		}

		nmt := &canopen.NMT{Bus: bus}
		nmt.Start(cfg.Nodes...)

		var rec *recorder.Recorder
		if path, _ := cmd.Flags().GetString(flagRecord); path != "" {
			rec, err = recorder.Create(path, logColumns)
			if err != nil {
				return err
			}
			defer rec.Close()
			log.Infof("[RUN] recording to %s", path)
		}

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				report(store, queue, rec, pumpSpeed)
			}
		}
	},
}

// report logs one status line and appends one CSV row when recording.
func report(store *telemetry.Store, queue *telemetry.Queue, rec *recorder.Recorder, pumpSpeed int) {
	pump, flow := store.PumpFeedback()

	values := map[string]interface{}{
		"pump_on_status":       pumpSpeed > 0,
		"commanded_pump_speed": pumpSpeed,
	}

	for i, series := range store.Pressures {
		if i >= len(pressureKeys) {
			break
		}
		if series.Len() > 0 {
			values[pressureKeys[i]] = series.Latest()
		}
	}

	for i, series := range store.Temperatures {
		if i >= len(temperatureKeys) {
			break
		}
		if series.Len() > 0 {
			values[temperatureKeys[i]] = series.Latest()
		}
	}

	if store.HasFlow() {
		values["pump_feedback"] = pump
		values["flow_rate_feedback"] = flow
	}

	log.Infof("[RUN] pump %.1f%% flow %.2f kg/h, %d readings dropped", pump, flow, queue.Dropped())

	if rec == nil {
		return
	}

	if err := rec.Record(values); err != nil {
		log.Errorf("[RUN] record: %v", err)
	}
}
