package cmd

import (
	"os"

	"github.com/huangsam/macrodash/core"
	"github.com/huangsam/macrodash/internal/contract"
	"github.com/spf13/cobra"
)

// indicatorsCmd lists the indicator catalog.
var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "List the indicators macrodash can fetch.",
	Long: `List every indicator key with its Data360 source and units.

Multi-unit indicators need --unit with one of the listed codes.

Examples:
  macrodash indicators
  macrodash indicators --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIndicators(rootCtx, os.Stdout, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list indicators", err)
		}
	},
}
