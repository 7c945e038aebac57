package cmd

import (
	"github.com/huangsam/osscompass/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the OSS Compass MCP server",
	Long: `Launch an MCP server over stdio so AI agents can search and score
repositories and issues with standard tools.

Logs go to stderr so stdout stays reserved for the protocol.`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, recommender, appLog)
	},
}
