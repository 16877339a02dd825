package cmd

import (
	"os"

	"github.com/huangsam/macrodash/core"
	"github.com/huangsam/macrodash/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd prints the yearly observations of an indicator with its trend line.
var seriesCmd = &cobra.Command{
	Use:   "series <indicator>",
	Short: "Show the yearly series of an indicator with its fitted trend.",
	Long: `Fetch an indicator for the focus country and print one row per year.

Each row carries the observed value and the value predicted by the
least squares trend fitted over the selected window.

Examples:
  # CPI for Thailand since 2010
  macrodash series cpi --country THA --window since2010

  # Export the series to a spreadsheet
  macrodash series gdp --output xlsx --output-file gdp.xlsx`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, os.Stdout, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run series", err)
		}
	},
}
