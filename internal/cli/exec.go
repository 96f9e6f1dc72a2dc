package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tmpdb/pkg/tmpdb"
)

var execCmd = &cobra.Command{
	Use:   "exec <url> <file.sql>",
	Short: "Run a SQL file against a database",
	Long: `Run a SQL file against the database the URL points at, typically one
created earlier (the URL published in TMPDB_URL works directly). MySQL
scripts are split into individual statements first; PostgreSQL and
SQLite execute the script natively.`,
	Args: cobra.ExactArgs(2),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	rawURL, path := args[0], args[1]

	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sql file: %w", err)
	}
	if err := tmpdb.Exec(cmd.Context(), rawURL, string(blob)); err != nil {
		errorf("execution failed: %v", err)
		return err
	}
	statusf("executed %s against %s", path, databaseNameFromURL(rawURL))
	return nil
}
