package cmd

import (
	"github.com/huangsam/macrodash/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the macrodash MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents list indicators,
summarize a country, fetch a series and compare countries.

Logs go to stderr; stdout carries the protocol.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
