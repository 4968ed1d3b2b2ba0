package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the MCP server",
	Long: `Start the claude-ssh-mcp server via npx.

If no Node.js runtime is found on PATH or in the well-known install
locations, the pinned version is downloaded, verified, and installed
into a private directory first. The command blocks for the lifetime of
the server and exits with the server's own exit code.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return startServer(cmd)
	},
}
