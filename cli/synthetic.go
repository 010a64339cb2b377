package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gocumdiff/synthetic"
)

func getSyntheticCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "synthetic",
		Args:  cobra.NoArgs,
		Short: "Regenerate the synthetic disjoint-subpopulation examples",
		Long: "Generates the four synthetic example constructions with two " +
			"subpopulations each, drawing Bernoulli outcomes from the exact " +
			"probabilities, and writes plots and metrics under \"weighted\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if len(cfg.Synthetic.Sizes) != 2 {
				return fmt.Errorf("synthetic.sizes must list exactly two subpopulation sizes")
			}

			runCfg := synthetic.Config{
				Sizes:      [2]int{cfg.Synthetic.Sizes[0], cfg.Synthetic.Sizes[1]},
				NBins:      cfg.Synthetic.NBins,
				Examples:   []int{0, 1, 2, 3},
				Seed:       cfg.EquierrSeed,
				MajorTicks: cfg.Synthetic.MajorTicks,
				OutputDir:  cfg.OutputDir,
			}
			return synthetic.Run(runCfg, logger)
		},
	}
}
