package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avass/simstep/internal/adapters/render/framestats"
	"github.com/avass/simstep/internal/addons/bench"
)

func newBenchCmd(cfg config) *cobra.Command {
	var (
		frames   int
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure frames per second against an engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if endpoint != "" {
				cfg.Endpoint = endpoint
			}

			controller, err := wireController(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer controller.Close()

			benchmark := bench.New(nil)
			controller.Register(benchmark)

			// The first step carries initialization; time the steady state.
			if _, err := controller.Step(cmd.Context(), nil); err != nil {
				return err
			}
			faults := appendFaultLines(nil, controller)
			benchmark.Start()
			var simulated float64
			for i := 0; i < frames; i++ {
				frame, err := controller.Step(cmd.Context(), nil)
				if err != nil {
					return err
				}
				simulated = frame.Time().Seconds()
				faults = appendFaultLines(faults, controller)
			}
			benchmark.Stop()

			report := framestats.Report{
				Endpoint:  cfg.Endpoint,
				Frames:    controller.Frames(),
				Simulated: simulated,
				Speed:     benchmark.Speed(),
				FPS:       benchmark.FPS(),
				Faults:    faults,
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), framestats.Render(report))
			return err
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 200, "Number of frames to time")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Engine endpoint (overrides SIMSTEP_ENDPOINT)")

	return cmd
}
