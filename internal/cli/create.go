package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tmpdb/internal/config"
	"github.com/vvka-141/tmpdb/internal/guard"
	"github.com/vvka-141/tmpdb/pkg/tmpdb"
)

var createCmd = &cobra.Command{
	Use:   "create [url]",
	Short: "Provision a temporary database and print its URL",
	Long: `Provision a uniquely named temporary database and print the resolved
URL to stdout.

Without --guard the database is left in place; drop it later with
"tmpdb drop". With --guard detach, a watcher process survives this
command and drops the database once the invoking shell exits. With
--guard pipe, the command itself holds the database and drops it when
its stdin reaches EOF.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	addCommonFlags(createCmd)
	createCmd.Flags().String("guard", "none", "Cleanup mode: none, pipe or detach")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd, args)
	if err != nil {
		return err
	}
	guardFlag, _ := cmd.Flags().GetString("guard")
	if guardFlag == "none" && opts.guardMode != "" {
		guardFlag = opts.guardMode
	}
	mode, ok := guard.ParseMode(guardFlag)
	if !ok {
		return fmt.Errorf("unknown guard mode %q: %w", guardFlag, tmpdb.ErrInvalidConfig)
	}

	logger := opts.logger()
	db, err := tmpdb.New(cmd.Context(), opts.rawURL, opts.config(logger))
	if err != nil {
		errorf("create failed: %v", err)
		return err
	}

	dbName, err := db.Name()
	if err != nil {
		return err
	}
	resolved, err := db.URL()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resolved)

	ident := guardIdentifier(opts.rawURL, dbName, opts.tempDir)
	env := config.FromEnv()

	switch mode {
	case guard.ModeNone:
		statusf("created %s; drop it with: tmpdb drop %s --name %s", dbName, opts.rawURL, dbName)
		return nil

	case guard.ModeDetach:
		helper, err := guard.FindHelper(env.Helper)
		if err != nil {
			return err
		}
		interval := env.GuardInterval
		if interval == 0 {
			interval = tmpdb.DefaultGuardInterval
		}
		// Guard the invoking shell, not this short-lived command.
		detachArgs := guard.DetachArgs(opts.rawURL, ident, os.Getppid(), interval)
		ctrl := &guard.ExecController{Debug: opts.verbose || env.Debug}
		if err := ctrl.StartDetached(helper, detachArgs); err != nil {
			return err
		}
		statusf("created %s; it will be dropped when pid %d exits", dbName, os.Getppid())
		return nil

	case guard.ModePipe:
		statusf("created %s; holding it until stdin closes", dbName)
		watcher := guard.NewWatcher(func(ctx context.Context) error {
			return tmpdb.DropDatabase(ctx, opts.rawURL, ident)
		}, logger)
		return watcher.WatchPipe(cmd.Context(), cmd.InOrStdin())
	}
	return nil
}
