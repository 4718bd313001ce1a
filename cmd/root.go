package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "simstep",
		Short:         "simstep: drive a frame-stepped simulation engine",
		Long:          "simstep exchanges ordered command batches for tagged response batches with a simulation engine, once per frame, and runs add-ons (motion tracking, benchmarking) over every exchange.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cfg := loadConfig()

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(cfg),
		newBenchCmd(cfg),
	)

	return rootCmd
}
