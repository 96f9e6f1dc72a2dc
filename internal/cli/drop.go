package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tmpdb/internal/ui"
	"github.com/vvka-141/tmpdb/pkg/tmpdb"
)

var dropCmd = &cobra.Command{
	Use:   "drop [url]",
	Short: "Drop a temporary database, or sweep all siblings",
	Long: `Drop a single database by name, or with --all sweep every database
this host and user could have created from the name template. The sweep
is meant for cleaning up orphans left behind by crashed test runs; it is
best effort and tolerates databases that are already gone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	addCommonFlags(dropCmd)
	dropCmd.Flags().String("name", "", "Database to drop")
	dropCmd.Flags().Bool("all", false, "Sweep all sibling databases for the template")
	dropCmd.Flags().Bool("force", false, "Skip the confirmation prompt for --all")
	rootCmd.AddCommand(dropCmd)
}

func runDrop(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd, args)
	if err != nil {
		return err
	}
	dbName, _ := cmd.Flags().GetString("name")
	all, _ := cmd.Flags().GetBool("all")
	force, _ := cmd.Flags().GetBool("force")
	if (dbName == "") == !all {
		return fmt.Errorf("exactly one of --name or --all is required: %w", tmpdb.ErrInvalidConfig)
	}

	logger := opts.logger()
	cfg := opts.config(logger)
	cfg.AutoCreate = false
	seq := new(tmpdb.Sequence)
	cfg.Sequence = seq

	db, err := tmpdb.New(cmd.Context(), opts.rawURL, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if dbName != "" {
		if err := db.DropNamed(cmd.Context(), dbName); err != nil {
			errorf("drop failed: %v", err)
			return err
		}
		statusf("dropped %s", dbName)
		return nil
	}

	var approver ui.Approver = ui.NewInteractiveApprover()
	if force {
		approver = ui.NewForcedApprover()
	}
	approved, err := approver.RequestApproval(cmd.Context(), sweepSubject(opts.rawURL))
	if err != nil {
		return err
	}
	if !approved {
		warnf("sweep cancelled")
		return nil
	}

	// A fresh process has handed out no retry indexes yet, so widen the
	// sweep to the whole attempt range.
	attempts := opts.maxAttempts
	if attempts == 0 {
		attempts = tmpdb.DefaultMaxCreateAttempts
	}
	for i := 0; i < attempts; i++ {
		seq.Next()
	}

	if err := db.Sweep(cmd.Context()); err != nil {
		errorf("sweep failed: %v", err)
		return err
	}
	statusf("swept sibling databases")
	return nil
}

func sweepSubject(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
