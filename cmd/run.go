package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avass/simstep/internal/adapters/render/framestats"
	"github.com/avass/simstep/internal/adapters/rig/tomlfile"
	"github.com/avass/simstep/internal/addons/motion"
	"github.com/avass/simstep/internal/application"
	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/output"
)

func newRunCmd(cfg config) *cobra.Command {
	var (
		frames     int
		untilStill bool
		endpoint   string
		rigPath    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Advance the engine frame by frame with motion tracking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if endpoint != "" {
				cfg.Endpoint = endpoint
			}
			if rigPath != "" {
				cfg.RigPath = rigPath
			}

			rig, err := loadRig(cfg)
			if err != nil {
				return err
			}
			tracker := motion.New(motion.Config{Rig: rig})

			controller, err := wireController(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer controller.Close()
			controller.Register(tracker)

			report := framestats.Report{Endpoint: cfg.Endpoint}

			// Version handshake on the first frame, then empty batches: the
			// idiom for "advance with no new instructions".
			commands := []domain.Command{domain.SendVersion()}
			var faults []string
			for i := 0; i < frames; i++ {
				frame, err := controller.Step(cmd.Context(), commands)
				if err != nil {
					return err
				}
				commands = nil
				faults = appendFaultLines(faults, controller)

				if report.Engine == "" {
					if view, ok, _ := frame.Find(output.TagVersion); ok {
						v := view.(output.Version)
						report.Engine = v.Engine()
						report.Protocol = v.Protocol()
					}
				}
				report.Simulated = frame.Time().Seconds()

				if untilStill && i > 0 && !tracker.IsMoving() {
					break
				}
			}

			report.Frames = controller.Frames()
			report.Tracked = tracker.Tracked()
			report.Moving = tracker.IsMoving()
			report.Faults = faults

			_, err = fmt.Fprintln(cmd.OutOrStdout(), framestats.Render(report))
			return err
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 100, "Maximum number of frames to advance")
	cmd.Flags().BoolVar(&untilStill, "until-still", false, "Stop as soon as every tracked id has settled")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Engine endpoint (overrides SIMSTEP_ENDPOINT)")
	cmd.Flags().StringVar(&rigPath, "rig", "", "Rig description TOML (overrides SIMSTEP_RIG)")

	return cmd
}

func loadRig(cfg config) (domain.Rig, error) {
	if cfg.RigPath == "" {
		return domain.Rig{}, nil
	}
	return tomlfile.Load(cfg.RigPath)
}

// appendFaultLines collects the most recent frame's faults. The controller
// resets its fault list on every Step, so the run loop calls this after each
// frame to build the whole run's record.
func appendFaultLines(lines []string, controller *application.Controller) []string {
	for _, f := range controller.Faults() {
		lines = append(lines, f.Error())
	}
	return lines
}
