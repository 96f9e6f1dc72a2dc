// Package cli wires the tmpdb commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tmpdb",
	Short: "Ephemeral databases for test runs",
	Long: `tmpdb provisions a uniquely named temporary database on PostgreSQL or
MySQL, or as a throwaway SQLite file, and cleans it up when the owning
process is gone. Test suites running in parallel each get their own
database without coordinating.

The resolved database URL is the only thing printed to stdout, so it can
be captured directly:

  export TEST_DB=$(tmpdb create postgres://postgres@localhost --guard detach)

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration (bad scheme, unworkable name template)
  11 - Could not create a unique database
  12 - SQL execution failed
  13 - Drop failed`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

func verboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}
