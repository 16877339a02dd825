package cmd

import (
	"os"

	"github.com/huangsam/macrodash/core"
	"github.com/huangsam/macrodash/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd aligns one indicator across the comparison set.
var compareCmd = &cobra.Command{
	Use:   "compare <indicator>",
	Short: "Compare an indicator across countries on a shared year axis.",
	Long: `Fetch an indicator for every country of the comparison set concurrently
and align the series by year. Years a country does not report are shown as
gaps rather than interpolated. A per-country summary follows the matrix.

The comparison set defaults to the ASEAN members:
BRN KHM IDN LAO MYS MMR PHL SGP THA VNM

Examples:
  # Inflation across ASEAN over the last 20 observations
  macrodash compare inflation --window last20

  # GDP per capita for a custom set, as CSV
  macrodash compare gdp --countries MYS,SGP,THA --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, os.Stdout, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
