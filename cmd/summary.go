package cmd

import (
	"os"

	"github.com/huangsam/macrodash/core"
	"github.com/huangsam/macrodash/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd summarizes one indicator for the focus country.
var summaryCmd = &cobra.Command{
	Use:   "summary <indicator>",
	Short: "Summarize an indicator for one country.",
	Long: `Fetch an indicator for the focus country and print its summary card.

The summary covers:
- First and last year in the window, and the latest value
- The peak value with its year
- Growth since 2000 (or since the first year when 2000 is missing)
- Mean, median and population standard deviation
- The fitted linear trend with its R²

Examples:
  # GDP per capita for Malaysia
  macrodash summary gdp

  # Inflation in Singapore over the last ten observations
  macrodash summary inflation --country SGP --window last10

  # Credit card accounts per 1,000 adults, as JSON
  macrodash summary credit-card --unit 10P3AD --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, os.Stdout, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run summary", err)
		}
	},
}
