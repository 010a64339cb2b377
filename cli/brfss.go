package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gocumdiff/brfss"
)

const flagKitchenSink = "kitchen-sink"

func getBRFSSCmd() *cobra.Command {
	brfssCmd := &cobra.Command{
		Use:   "brfss [seed]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Analyze the Behavioral Risk Factor Surveillance System",
		Long: "Downloads the 2022 BRFSS data if necessary and compares " +
			"subpopulations defined by coded response variates, writing plots " +
			"and metrics under \"weighted\" and \"weighted<seed>\". The " +
			"optional positional argument overrides the seed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				seed, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return err
				}
				cfg.Seed = seed
			}
			kitchenSink, err := cmd.Flags().GetBool(flagKitchenSink)
			if err != nil {
				return err
			}

			runCfg := brfss.Config{
				Seed:        cfg.Seed,
				KitchenSink: cfg.BRFSS.KitchenSink || kitchenSink,
				DataDir:     cfg.DataDir,
				OutputDir:   cfg.OutputDir,
				MajorTicks:  cfg.BRFSS.MajorTicks,
				NBins:       cfg.BRFSS.NBins,
				EquierrSeed: cfg.EquierrSeed,
			}
			return brfss.Run(runCfg, logger)
		},
	}
	brfssCmd.Flags().Bool(flagKitchenSink, false,
		"process thirteen subpopulation variates instead of five")
	return brfssCmd
}
