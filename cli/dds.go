package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gocumdiff/dds"
)

func getDDSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dds <subpop> [subpop2] [seed]",
		Args:  cobra.RangeArgs(1, 3),
		Short: "Analyze the Taylor-Mickel expenditures data set",
		Long: "Downloads the Taylor-Mickel \"Simpson's Paradox\" data if " +
			"necessary and compares a gender or ethnicity against the full " +
			"population, or two compatible subpopulations against each " +
			"other. With one subpopulation the results go under " +
			"\"unweighted\"; with two, under \"unweighted<seed>\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			subpop := args[0]
			subpop2 := ""
			if len(args) >= 2 {
				subpop2 = args[1]
			}
			if len(args) == 3 {
				seed, err := strconv.ParseInt(args[2], 10, 64)
				if err != nil {
					return err
				}
				cfg.Seed = seed
			}

			runCfg := dds.Config{
				Seed:        cfg.Seed,
				DataDir:     cfg.DataDir,
				OutputDir:   cfg.OutputDir,
				MajorTicks:  cfg.DDS.MajorTicks,
				NBins:       cfg.DDS.NBins,
				EquierrSeed: cfg.EquierrSeed,
			}
			return dds.Run(runCfg, subpop, subpop2, logger)
		},
	}
}
