package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision the runtime and register the MCP server",
	Long: `Provision the Node.js runtime if needed, then start the server once.

Registration with Claude Desktop is performed by the npm package itself
on first launch, so this behaves like 'run': the runtime is ensured and
the package is started via npx. Use it after installation to complete
setup, or rerun it at any time; provisioning is idempotent and skips
work already done.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return startServer(cmd)
	},
}
